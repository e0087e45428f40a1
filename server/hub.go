package server

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"hxsim/calculator"
	"hxsim/circuit"
	"hxsim/fluid"
	"hxsim/metrics"
	"hxsim/model"
	"hxsim/report"
)

// 消息类型
const (
	TypeCoaxial      = "coaxial"
	TypeMultiCircuit = "multicircuit"
	TypeResult       = "result"
	TypeError        = "error"
)

// Response is the content of a result message.
type Response struct {
	Kind   string        `json:"kind"`
	Items  []report.Item `json:"items"`
	Result any           `json:"result"`
}

// Hub 处理单个连接上的计算请求，请求按到达顺序逐个计算
type Hub struct {
	conn    *websocket.Conn
	props   fluid.Provider
	cfg     calculator.Config
	metrics *metrics.Collector

	// request
	msg chan model.Msg
	// response
	reply chan model.Msg
	done  chan struct{}
}

func NewHub(conn *websocket.Conn, props fluid.Provider, cfg calculator.Config, m *metrics.Collector) *Hub {
	return &Hub{
		conn:    conn,
		props:   props,
		cfg:     cfg,
		metrics: m,
		msg:     make(chan model.Msg, 10),
		reply:   make(chan model.Msg, 10),
		done:    make(chan struct{}),
	}
}

func (h *Hub) handleResponse() {
	for {
		select {
		case reply := <-h.reply:
			if err := h.conn.WriteJSON(&reply); err != nil {
				log.WithFields(log.Fields{"type": reply.Type}).Error(err)
			}
		case <-h.done:
			return
		}
	}
}

func (h *Hub) handleRequest() {
	for {
		select {
		case msg := <-h.msg:
			select {
			case h.reply <- h.handle(msg):
			case <-h.done:
				return
			}
		case <-h.done:
			return
		}
	}
}

// handle solves one request and builds its reply.
func (h *Hub) handle(msg model.Msg) model.Msg {
	var resp *Response
	var err error
	switch msg.Type {
	case TypeCoaxial:
		resp, err = h.coaxial(msg.Content)
	case TypeMultiCircuit:
		resp, err = h.multiCircuit(msg.Content)
	default:
		err = fmt.Errorf("no such type %q", msg.Type)
	}
	if err != nil {
		log.WithFields(log.Fields{"type": msg.Type, "kind": metrics.ErrorKind(err)}).Error(err)
		return model.Msg{Type: TypeError, Content: err.Error()}
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return model.Msg{Type: TypeError, Content: err.Error()}
	}
	return model.Msg{Type: TypeResult, Content: string(data)}
}

func (h *Hub) coaxial(content string) (*Response, error) {
	var c model.CoaxialCase
	if err := json.Unmarshal([]byte(content), &c); err != nil {
		return nil, fmt.Errorf("decoding coaxial case: %w", err)
	}
	start := time.Now()
	s := calculator.NewCoaxial(c, h.props, h.cfg)
	err := s.Calculate()
	h.metrics.ObserveSolve(TypeCoaxial, start, err)
	if err != nil {
		return nil, err
	}
	h.metrics.ObserveRootSolves(s.Solves())
	return &Response{Kind: TypeCoaxial, Items: report.Coaxial(s.Result()), Result: s.Result()}, nil
}

func (h *Hub) multiCircuit(content string) (*Response, error) {
	var c model.MultiCircuitCase
	if err := json.Unmarshal([]byte(content), &c); err != nil {
		return nil, fmt.Errorf("decoding multi-circuit case: %w", err)
	}
	start := time.Now()
	co := circuit.NewCoordinator(h.props, h.cfg)
	co.SetObserver(h.metrics.CircuitObserver())
	res, err := co.Solve(c)
	h.metrics.ObserveSolve(TypeMultiCircuit, start, err)
	if err != nil {
		return nil, err
	}
	return &Response{Kind: TypeMultiCircuit, Items: report.MultiCircuit(c, res), Result: res}, nil
}
