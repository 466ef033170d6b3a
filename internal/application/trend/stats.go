package trend

import (
	"math"
	"sort"
)

// fitResult holds the OLS fit of value on index 0..n-1.
type fitResult struct {
	Slope     float64
	Intercept float64
	PValue    float64
	Fitted    []float64
}

// linearFit runs ordinary least-squares simple regression of y on its index
// and returns the fit with the two-sided p-value of the slope (t-test with
// n-2 degrees of freedom). Callers guarantee len(y) >= 3 and nonzero
// variance.
func linearFit(y []float64) fitResult {
	n := float64(len(y))
	var sumX, sumY float64
	for i, v := range y {
		sumX += float64(i)
		sumY += v
	}
	meanX := sumX / n
	meanY := sumY / n

	var sxx, sxy float64
	for i, v := range y {
		dx := float64(i) - meanX
		sxx += dx * dx
		sxy += dx * (v - meanY)
	}

	slope := sxy / sxx
	intercept := meanY - slope*meanX

	fitted := make([]float64, len(y))
	var sse float64
	for i, v := range y {
		fitted[i] = slope*float64(i) + intercept
		r := v - fitted[i]
		sse += r * r
	}

	df := n - 2
	var p float64
	if sse <= 0 {
		// Perfect fit: the slope is exact, not a chance pattern.
		p = 0
		if slope == 0 {
			p = 1
		}
	} else {
		se := math.Sqrt(sse / df / sxx)
		t := slope / se
		p = pValueFromT(t, df)
	}

	return fitResult{Slope: slope, Intercept: intercept, PValue: p, Fitted: fitted}
}

// rollingMean computes a trailing rolling mean over the given window with a
// minimum period of 1, so the first window-1 entries average what is
// available so far.
func rollingMean(y []float64, window int) []float64 {
	out := make([]float64, len(y))
	var sum float64
	for i, v := range y {
		sum += v
		if i >= window {
			sum -= y[i-window]
		}
		span := i + 1
		if span > window {
			span = window
		}
		out[i] = sum / float64(span)
	}
	return out
}

// Spearman computes the Spearman rank correlation between x and y, with the
// two-sided p-value of the correlation under a t approximation. ok is false
// when fewer than 3 pairs exist or either side is constant.
func Spearman(x, y []float64) (rho, p float64, ok bool) {
	if len(x) != len(y) || len(x) < 3 {
		return 0, 0, false
	}
	rx := rank(x)
	ry := rank(y)

	n := float64(len(x))
	var mx, my float64
	for i := range rx {
		mx += rx[i]
		my += ry[i]
	}
	mx /= n
	my /= n

	var sxy, sxx, syy float64
	for i := range rx {
		dx := rx[i] - mx
		dy := ry[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0, 0, false
	}
	rho = sxy / math.Sqrt(sxx*syy)

	df := n - 2
	if 1-rho*rho <= 0 {
		return rho, 0, true
	}
	t := rho * math.Sqrt(df/(1-rho*rho))
	return rho, pValueFromT(t, df), true
}

// rank assigns average ranks (1-based) with ties shared.
func rank(v []float64) []float64 {
	idx := make([]int, len(v))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return v[idx[a]] < v[idx[b]] })

	ranks := make([]float64, len(v))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && v[idx[j+1]] == v[idx[i]] {
			j++
		}
		avg := float64(i+j+2) / 2 // average of 1-based positions i+1..j+1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

// pValueFromT returns the two-sided tail probability of a Student-t statistic
// with df degrees of freedom, via the regularized incomplete beta function.
func pValueFromT(t, df float64) float64 {
	if math.IsInf(t, 0) {
		return 0
	}
	return regIncBeta(df/2, 0.5, df/(df+t*t))
}

// regIncBeta computes the regularized incomplete beta function I_x(a, b)
// using the continued-fraction expansion.
func regIncBeta(a, b, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	lab, _ := math.Lgamma(a + b)
	la, _ := math.Lgamma(a)
	lb, _ := math.Lgamma(b)
	front := math.Exp(lab - la - lb + a*math.Log(x) + b*math.Log(1-x))
	if x < (a+1)/(a+b+2) {
		return front * betaCF(a, b, x) / a
	}
	return 1 - front*betaCF(b, a, 1-x)/b
}

func betaCF(a, b, x float64) float64 {
	const (
		maxIter = 200
		eps     = 3e-14
		fpmin   = 1e-300
	)
	qab := a + b
	qap := a + 1
	qam := a - 1
	c := 1.0
	d := 1 - qab*x/qap
	if math.Abs(d) < fpmin {
		d = fpmin
	}
	d = 1 / d
	h := d
	for m := 1; m <= maxIter; m++ {
		m2 := float64(2 * m)
		aa := float64(m) * (b - float64(m)) * x / ((qam + m2) * (a + m2))
		d = 1 + aa*d
		if math.Abs(d) < fpmin {
			d = fpmin
		}
		c = 1 + aa/c
		if math.Abs(c) < fpmin {
			c = fpmin
		}
		d = 1 / d
		h *= d * c
		aa = -(a + float64(m)) * (qab + float64(m)) * x / ((a + m2) * (qap + m2))
		d = 1 + aa*d
		if math.Abs(d) < fpmin {
			d = fpmin
		}
		c = 1 + aa/c
		if math.Abs(c) < fpmin {
			c = fpmin
		}
		d = 1 / d
		del := d * c
		h *= del
		if math.Abs(del-1) < eps {
			break
		}
	}
	return h
}
