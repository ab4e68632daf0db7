package params

import "math"

// Open-circuit potential fits. Stoichiometry is clamped slightly inside
// (0, 1) so the exponential branches stay finite near the windows.

const stoichEps = 1e-6

func clampStoich(x float64) float64 {
	if x < stoichEps {
		return stoichEps
	}
	if x > 1-stoichEps {
		return 1 - stoichEps
	}
	return x
}

func ocpGraphiteChen(x float64) float64 {
	x = clampStoich(x)
	return 1.9793*math.Exp(-39.3631*x) + 0.2482 -
		0.0909*math.Tanh(29.8538*(x-0.1234)) -
		0.04478*math.Tanh(14.9159*(x-0.2769)) -
		0.0205*math.Tanh(30.4444*(x-0.6103))
}

func ocpNMCChen(y float64) float64 {
	y = clampStoich(y)
	return -0.8090*y + 4.4875 -
		0.0428*math.Tanh(18.5138*(y-0.5542)) -
		17.7326*math.Tanh(15.7890*(y-0.3117)) +
		17.5842*math.Tanh(15.9308*(y-0.3120))
}

func ocpGraphiteMarquis(x float64) float64 {
	x = clampStoich(x)
	return 0.194 + 1.5*math.Exp(-120.0*x) +
		0.0351*math.Tanh((x-0.286)/0.083) -
		0.0045*math.Tanh((x-0.849)/0.119) -
		0.035*math.Tanh((x-0.9233)/0.05) -
		0.0147*math.Tanh((x-0.5)/0.034) -
		0.102*math.Tanh((x-0.194)/0.142) -
		0.022*math.Tanh((x-0.9)/0.0164) -
		0.011*math.Tanh((x-0.124)/0.0226) +
		0.0155*math.Tanh((x-0.105)/0.029)
}

func ocpLCOMarquis(y float64) float64 {
	y = clampStoich(y)
	return 2.16216 + 0.07645*math.Tanh(30.834-54.4806*y) +
		2.1581*math.Tanh(52.294-50.294*y) -
		0.14169*math.Tanh(11.0923-19.8543*y) +
		0.2051*math.Tanh(1.4684-5.4888*y) +
		0.2531*math.Tanh((-y+0.56478)/0.1316) -
		0.02167*math.Tanh((y-0.525)/0.006)
}

func ocpGraphiteEcker(x float64) float64 {
	x = clampStoich(x)
	return 0.1600 + 1.3200*math.Exp(-70.0*x) -
		0.0350*math.Tanh((x-0.20)/0.08) -
		0.0450*math.Tanh((x-0.50)/0.13) -
		0.0600*math.Tanh((x-0.86)/0.05) +
		0.0400*math.Exp(-200.0*(1.0-x))
}

func ocpNMCEcker(y float64) float64 {
	y = clampStoich(y)
	return 4.3200 - 1.0000*y -
		0.1300*math.Tanh((y-0.38)/0.07) +
		0.1100*math.Tanh((y-0.24)/0.05) -
		0.0900*math.Exp(-40.0*(1.0-y))
}
