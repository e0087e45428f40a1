package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hxsim/calculator"
	"hxsim/fluid"
	"hxsim/model"
)

func TestSolveCaseFiles(t *testing.T) {
	cfg, err := calculator.LoadConfig(calculator.DefaultConfigPath)
	require.NoError(t, err)

	f, err := model.LoadCaseFile("cases/coaxial.yaml")
	require.NoError(t, err)
	items, err := solveCase(f, fluid.Default(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "Name", items[0].Label)
	assert.Equal(t, "coaxial", items[0].Text)

	var buf bytes.Buffer
	require.NoError(t, writeItems(&buf, "csv", items))
	assert.Contains(t, buf.String(), "Q Total,W,")

	f, err = model.LoadCaseFile("cases/multicircuit.yaml")
	require.NoError(t, err)
	items, err = solveCase(f, fluid.Default(), cfg)
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, writeItems(&buf, "table", items))
	assert.Contains(t, buf.String(), "Q Total sum")
	assert.Contains(t, buf.String(), "Tubes per bank 4")
	assert.Contains(t, buf.String(), "Outlet ref. pressure")
	assert.Equal(t, "Outlet ref. temp", items[2+15].Label)

	assert.Error(t, writeItems(&buf, "xml", items))
}
