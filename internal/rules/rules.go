// Package rules implements the predicate language used by badge criteria.
//
// A criterion is a conjunction of clauses separated by "y" (or "&&"), each
// clause comparing a metric against a numeric constant:
//
//	puntos >= 100
//	actividades >= 5 y diagnostico >= 80
//
// Metrics are read from an aggregate Snapshot of the user's state. Parsing
// is strict: an unknown metric, operator or malformed clause yields an
// error so the caller can skip and report the badge without failing the
// surrounding cascade.
package rules

import (
	"fmt"
	"strconv"
	"strings"
)

// Snapshot aggregates the user state badge criteria evaluate against.
type Snapshot struct {
	Points              int
	Levels              int
	CompletedActivities int
	Plays               int
	DiagnosticAverage   float64
}

// Metric names accepted in criteria.
const (
	MetricPoints     = "puntos"
	MetricLevels     = "niveles"
	MetricActivities = "actividades"
	MetricPlays      = "jugadas"
	MetricDiagnostic = "diagnostico"
)

type operator string

const (
	opGTE operator = ">="
	opGT  operator = ">"
	opLTE operator = "<="
	opLT  operator = "<"
	opEQ  operator = "=="
)

// Clause is a single metric comparison.
type Clause struct {
	Metric string
	Op     string
	Value  float64
}

// Predicate is a parsed criterion: the conjunction of its clauses.
type Predicate struct {
	Clauses []Clause
}

// Parse compiles criterion text into a Predicate.
func Parse(criterion string) (Predicate, error) {
	trimmed := strings.TrimSpace(criterion)
	if trimmed == "" {
		return Predicate{}, fmt.Errorf("empty criterion")
	}

	normalized := strings.ReplaceAll(trimmed, "&&", " y ")
	parts := strings.Split(normalized, " y ")

	predicate := Predicate{Clauses: make([]Clause, 0, len(parts))}
	for _, part := range parts {
		clause, err := parseClause(part)
		if err != nil {
			return Predicate{}, err
		}
		predicate.Clauses = append(predicate.Clauses, clause)
	}

	return predicate, nil
}

func parseClause(input string) (Clause, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return Clause{}, fmt.Errorf("empty clause")
	}

	// Two-character operators must be probed before their one-character prefixes.
	for _, op := range []operator{opGTE, opLTE, opEQ, opGT, opLT} {
		idx := strings.Index(text, string(op))
		if idx < 0 {
			continue
		}

		metric := strings.ToLower(strings.TrimSpace(text[:idx]))
		rawValue := strings.TrimSpace(text[idx+len(op):])

		if !validMetric(metric) {
			return Clause{}, fmt.Errorf("unknown metric %q", metric)
		}

		value, err := strconv.ParseFloat(rawValue, 64)
		if err != nil {
			return Clause{}, fmt.Errorf("invalid value %q: %w", rawValue, err)
		}

		return Clause{Metric: metric, Op: string(op), Value: value}, nil
	}

	return Clause{}, fmt.Errorf("no comparison operator in clause %q", text)
}

func validMetric(name string) bool {
	switch name {
	case MetricPoints, MetricLevels, MetricActivities, MetricPlays, MetricDiagnostic:
		return true
	}
	return false
}

// Evaluate reports whether the snapshot satisfies every clause.
func (p Predicate) Evaluate(snapshot Snapshot) bool {
	for _, clause := range p.Clauses {
		if !clause.evaluate(snapshot) {
			return false
		}
	}
	return len(p.Clauses) > 0
}

func (c Clause) evaluate(snapshot Snapshot) bool {
	var actual float64
	switch c.Metric {
	case MetricPoints:
		actual = float64(snapshot.Points)
	case MetricLevels:
		actual = float64(snapshot.Levels)
	case MetricActivities:
		actual = float64(snapshot.CompletedActivities)
	case MetricPlays:
		actual = float64(snapshot.Plays)
	case MetricDiagnostic:
		actual = snapshot.DiagnosticAverage
	default:
		return false
	}

	switch operator(c.Op) {
	case opGTE:
		return actual >= c.Value
	case opGT:
		return actual > c.Value
	case opLTE:
		return actual <= c.Value
	case opLT:
		return actual < c.Value
	case opEQ:
		return actual == c.Value
	}
	return false
}
