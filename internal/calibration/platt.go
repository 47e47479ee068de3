// Package calibration maps raw scores to probabilities with a Platt
// (two-parameter logistic) model and persists the fitted parameters.
package calibration

import (
	"errors"
	"fmt"
	"math"

	"github.com/aminchedo/Project-X-sub001/internal/model"
)

// ErrSingularFit marks a Newton iteration stopped on a degenerate Hessian.
// It is reported in FitReport and never returned from Fit.
var ErrSingularFit = errors.New("singular hessian")

// Model holds the Platt parameters: p = sigmoid(A*score + B).
type Model struct {
	A float64 `json:"A" yaml:"A" db:"a"`
	B float64 `json:"B" yaml:"B" db:"b"`
}

// Identity is the model used before any fit has been stored.
var Identity = Model{A: 1, B: 0}

// FitOptions tune the Newton solver.
type FitOptions struct {
	Lambda  float64 `mapstructure:"lambda" validate:"gte=0"`
	MaxIter int     `mapstructure:"max_iter" validate:"min=1"`
	Tol     float64 `mapstructure:"tol" validate:"gt=0"`
}

// DefaultFitOptions: lambda 1e-3, 50 iterations, 1e-6 step tolerance.
func DefaultFitOptions() FitOptions {
	return FitOptions{Lambda: 1e-3, MaxIter: 50, Tol: 1e-6}
}

// FitReport describes how a fit terminated.
type FitReport struct {
	Iterations int     `json:"iterations"`
	Converged  bool    `json:"converged"`
	Loss       float64 `json:"loss"`
	// Err is ErrSingularFit when the solver stopped on a singular Hessian.
	Err error `json:"-"`
}

// Singular reports whether the fit stopped on a degenerate Hessian.
func (r FitReport) Singular() bool { return errors.Is(r.Err, ErrSingularFit) }

const (
	singularDet = 1e-12
	minStep     = 1.0 / 1024
)

// Fit minimizes the L2-regularized logistic loss over (scores, labels) with
// damped Newton steps. A starts at 0 and B at log((N+ + 1)/(N- + 1)).
// Each step solves the 2x2 system exactly and halves the step until the
// loss does not increase. Iteration stops when the L1 norm of the applied
// update drops below opts.Tol, when |det H| < 1e-12, or after opts.MaxIter
// steps; the current parameters are returned in every case.
//
// Labels must be 0 or 1. Empty, mismatched or non-finite input fails with
// model.ErrInvalidInput.
func Fit(scores []float64, labels []int, opts FitOptions) (Model, FitReport, error) {
	if len(scores) == 0 || len(scores) != len(labels) {
		return Model{}, FitReport{}, fmt.Errorf("%w: %d scores, %d labels", model.ErrInvalidInput, len(scores), len(labels))
	}
	var pos, neg float64
	for i, y := range labels {
		if y != 0 && y != 1 {
			return Model{}, FitReport{}, fmt.Errorf("%w: label %d at %d", model.ErrInvalidInput, y, i)
		}
		if math.IsNaN(scores[i]) || math.IsInf(scores[i], 0) {
			return Model{}, FitReport{}, fmt.Errorf("%w: score at %d not finite", model.ErrInvalidInput, i)
		}
		if y == 1 {
			pos++
		} else {
			neg++
		}
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = DefaultFitOptions().MaxIter
	}
	if opts.Tol <= 0 {
		opts.Tol = DefaultFitOptions().Tol
	}

	m := Model{A: 0, B: math.Log((pos + 1) / (neg + 1))}
	loss := objective(scores, labels, m, opts.Lambda)
	var rep FitReport
	for rep.Iterations < opts.MaxIter {
		rep.Iterations++

		// gradient and Hessian of the regularized negative log-likelihood
		gA, gB := opts.Lambda*m.A, opts.Lambda*m.B
		hAA, hAB, hBB := opts.Lambda, 0.0, opts.Lambda
		for i, s := range scores {
			p := Sigmoid(m.A*s + m.B)
			d := p - float64(labels[i])
			w := p * (1 - p)
			gA += d * s
			gB += d
			hAA += w * s * s
			hAB += w * s
			hBB += w
		}
		det := hAA*hBB - hAB*hAB
		if math.Abs(det) < singularDet {
			rep.Err = ErrSingularFit
			break
		}
		dA := (hBB*gA - hAB*gB) / det
		dB := (hAA*gB - hAB*gA) / det

		step := 1.0
		next := Model{A: m.A - dA, B: m.B - dB}
		nextLoss := objective(scores, labels, next, opts.Lambda)
		for nextLoss > loss && step > minStep {
			step /= 2
			next = Model{A: m.A - step*dA, B: m.B - step*dB}
			nextLoss = objective(scores, labels, next, opts.Lambda)
		}
		if nextLoss > loss {
			rep.Converged = true
			break
		}
		moved := math.Abs(next.A-m.A) + math.Abs(next.B-m.B)
		m, loss = next, nextLoss
		if moved < opts.Tol {
			rep.Converged = true
			break
		}
	}
	rep.Loss = loss
	return m, rep, nil
}

// objective is the regularized negative log-likelihood.
func objective(scores []float64, labels []int, m Model, lambda float64) float64 {
	total := 0.5 * lambda * (m.A*m.A + m.B*m.B)
	for i, s := range scores {
		z := m.A*s + m.B
		total += softplus(z) - float64(labels[i])*z
	}
	return total
}

// softplus computes log(1 + e^z) without overflow.
func softplus(z float64) float64 {
	if z > 0 {
		return z + math.Log1p(math.Exp(-z))
	}
	return math.Log1p(math.Exp(z))
}

// Sigmoid is the logistic function. It saturates to exactly 0 or 1 for
// extreme arguments and never overflows.
func Sigmoid(z float64) float64 {
	switch {
	case math.IsNaN(z):
		return 0.5
	case z >= 0:
		return 1 / (1 + math.Exp(-z))
	default:
		e := math.Exp(z)
		return e / (1 + e)
	}
}

// Apply returns the calibrated probability for score.
func Apply(score float64, m Model) float64 {
	return Sigmoid(m.A*score + m.B)
}
