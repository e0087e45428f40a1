package fluid

// Saturation data for propane, bubble line from 223.15 K to 343.15 K.
// Enthalpies use the IIR reference (200 kJ/kg saturated liquid at 0 C).
var r290Rows = []SaturationRow{
	{T: 223.15, P: 70.7e3, RhoL: 591.6, RhoV: 1.66, HL: 79.4e3, HV: 512.4e3, CpL: 2220, CpV: 1400, MuL: 225e-6, MuV: 6.4e-6, KL: 0.129, KV: 0.0119},
	{T: 233.15, P: 111.0e3, RhoL: 580.0, RhoV: 2.52, HL: 102.8e3, HV: 526.8e3, CpL: 2270, CpV: 1460, MuL: 190e-6, MuV: 6.7e-6, KL: 0.124, KV: 0.0127},
	{T: 243.15, P: 167.7e3, RhoL: 568.0, RhoV: 3.70, HL: 126.6e3, HV: 540.6e3, CpL: 2320, CpV: 1520, MuL: 167e-6, MuV: 7.0e-6, KL: 0.119, KV: 0.0135},
	{T: 253.15, P: 244.5e3, RhoL: 555.8, RhoV: 5.25, HL: 150.7e3, HV: 553.7e3, CpL: 2380, CpV: 1590, MuL: 150e-6, MuV: 7.3e-6, KL: 0.114, KV: 0.0143},
	{T: 263.15, P: 345.0e3, RhoL: 542.9, RhoV: 7.26, HL: 175.2e3, HV: 565.2e3, CpL: 2430, CpV: 1670, MuL: 134e-6, MuV: 7.6e-6, KL: 0.110, KV: 0.0151},
	{T: 273.15, P: 474.5e3, RhoL: 528.6, RhoV: 9.83, HL: 200.0e3, HV: 575.0e3, CpL: 2480, CpV: 1750, MuL: 120e-6, MuV: 7.9e-6, KL: 0.106, KV: 0.0160},
	{T: 283.15, P: 636.6e3, RhoL: 514.7, RhoV: 13.0, HL: 225.2e3, HV: 585.2e3, CpL: 2550, CpV: 1840, MuL: 108e-6, MuV: 8.2e-6, KL: 0.101, KV: 0.0169},
	{T: 293.15, P: 836.5e3, RhoL: 500.1, RhoV: 17.0, HL: 251.0e3, HV: 594.0e3, CpL: 2630, CpV: 1950, MuL: 98e-6, MuV: 8.6e-6, KL: 0.096, KV: 0.0180},
	{T: 303.15, P: 1079.0e3, RhoL: 484.5, RhoV: 21.9, HL: 277.6e3, HV: 602.6e3, CpL: 2730, CpV: 2080, MuL: 88e-6, MuV: 9.0e-6, KL: 0.091, KV: 0.0191},
	{T: 313.15, P: 1369.0e3, RhoL: 467.4, RhoV: 28.0, HL: 305.2e3, HV: 610.2e3, CpL: 2860, CpV: 2240, MuL: 79e-6, MuV: 9.4e-6, KL: 0.086, KV: 0.0204},
	{T: 323.15, P: 1713.0e3, RhoL: 448.5, RhoV: 35.7, HL: 334.2e3, HV: 617.2e3, CpL: 3030, CpV: 2460, MuL: 71e-6, MuV: 9.9e-6, KL: 0.081, KV: 0.0219},
	{T: 333.15, P: 2116.0e3, RhoL: 427.0, RhoV: 45.4, HL: 365.2e3, HV: 623.2e3, CpL: 3290, CpV: 2780, MuL: 63e-6, MuV: 10.5e-6, KL: 0.076, KV: 0.0238},
	{T: 343.15, P: 2585.0e3, RhoL: 402.0, RhoV: 58.0, HL: 399.5e3, HV: 627.5e3, CpL: 3700, CpV: 3300, MuL: 55e-6, MuV: 11.3e-6, KL: 0.070, KV: 0.0262},
}

// Saturation data for R410A, bubble line from 233.15 K to 323.15 K.
var r410aRows = []SaturationRow{
	{T: 233.15, P: 175.0e3, RhoL: 1312, RhoV: 7.4, HL: 142.9e3, HV: 402.4e3, CpL: 1360, CpV: 930, MuL: 260e-6, MuV: 10.7e-6, KL: 0.130, KV: 0.0097},
	{T: 243.15, P: 272.0e3, RhoL: 1280, RhoV: 11.1, HL: 157.1e3, HV: 407.7e3, CpL: 1380, CpV: 980, MuL: 232e-6, MuV: 11.1e-6, KL: 0.124, KV: 0.0102},
	{T: 253.15, P: 400.0e3, RhoL: 1247, RhoV: 15.9, HL: 171.8e3, HV: 412.6e3, CpL: 1410, CpV: 1040, MuL: 207e-6, MuV: 11.5e-6, KL: 0.118, KV: 0.0107},
	{T: 263.15, P: 573.0e3, RhoL: 1211, RhoV: 22.2, HL: 185.5e3, HV: 417.1e3, CpL: 1450, CpV: 1120, MuL: 185e-6, MuV: 11.9e-6, KL: 0.112, KV: 0.0113},
	{T: 273.15, P: 798.0e3, RhoL: 1170, RhoV: 30.6, HL: 200.0e3, HV: 421.0e3, CpL: 1490, CpV: 1210, MuL: 166e-6, MuV: 12.4e-6, KL: 0.107, KV: 0.0119},
	{T: 283.15, P: 1085.0e3, RhoL: 1127, RhoV: 41.1, HL: 214.6e3, HV: 424.1e3, CpL: 1540, CpV: 1320, MuL: 149e-6, MuV: 12.9e-6, KL: 0.102, KV: 0.0126},
	{T: 293.15, P: 1444.0e3, RhoL: 1080, RhoV: 54.7, HL: 229.8e3, HV: 425.8e3, CpL: 1610, CpV: 1460, MuL: 133e-6, MuV: 13.5e-6, KL: 0.097, KV: 0.0134},
	{T: 303.15, P: 1885.0e3, RhoL: 1028, RhoV: 72.1, HL: 245.9e3, HV: 425.6e3, CpL: 1710, CpV: 1660, MuL: 118e-6, MuV: 14.2e-6, KL: 0.092, KV: 0.0144},
	{T: 313.15, P: 2417.0e3, RhoL: 969, RhoV: 95.3, HL: 263.4e3, HV: 422.4e3, CpL: 1860, CpV: 1970, MuL: 104e-6, MuV: 15.0e-6, KL: 0.087, KV: 0.0157},
	{T: 323.15, P: 3065.0e3, RhoL: 899, RhoV: 127.0, HL: 283.0e3, HV: 414.9e3, CpL: 2100, CpV: 2500, MuL: 91e-6, MuV: 16.2e-6, KL: 0.082, KV: 0.0175},
}

// Liquid water between the freezing and the atmospheric boiling point.
var waterRows = []LiquidRow{
	{T: 273.15, Rho: 999.8, Cp: 4217, Mu: 1.792e-3, K: 0.561},
	{T: 283.15, Rho: 999.7, Cp: 4193, Mu: 1.307e-3, K: 0.580},
	{T: 293.15, Rho: 998.2, Cp: 4182, Mu: 1.002e-3, K: 0.598},
	{T: 303.15, Rho: 995.7, Cp: 4179, Mu: 0.798e-3, K: 0.615},
	{T: 313.15, Rho: 992.2, Cp: 4179, Mu: 0.653e-3, K: 0.631},
	{T: 323.15, Rho: 988.0, Cp: 4181, Mu: 0.547e-3, K: 0.644},
	{T: 333.15, Rho: 983.2, Cp: 4185, Mu: 0.467e-3, K: 0.654},
	{T: 343.15, Rho: 977.8, Cp: 4190, Mu: 0.404e-3, K: 0.663},
	{T: 353.15, Rho: 971.8, Cp: 4197, Mu: 0.355e-3, K: 0.670},
	{T: 363.15, Rho: 965.3, Cp: 4205, Mu: 0.315e-3, K: 0.675},
	{T: 373.15, Rho: 958.4, Cp: 4216, Mu: 0.282e-3, K: 0.679},
}
