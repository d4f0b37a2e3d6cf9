package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSingleClause(t *testing.T) {
	predicate, err := Parse("puntos >= 100")
	require.NoError(t, err)
	require.Len(t, predicate.Clauses, 1)
	require.Equal(t, MetricPoints, predicate.Clauses[0].Metric)
	require.Equal(t, ">=", predicate.Clauses[0].Op)
	require.InDelta(t, 100.0, predicate.Clauses[0].Value, 1e-9)
}

func TestParseConjunction(t *testing.T) {
	predicate, err := Parse("puntos >= 50 y actividades >= 3")
	require.NoError(t, err)
	require.Len(t, predicate.Clauses, 2)

	predicate, err = Parse("puntos >= 50 && jugadas > 10")
	require.NoError(t, err)
	require.Len(t, predicate.Clauses, 2)
}

func TestParseRejectsMalformedCriteria(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"puntos",
		"racha >= 5",
		"puntos >= muchos",
		"puntos >= 50 y",
	}

	for _, input := range cases {
		_, err := Parse(input)
		require.Error(t, err, "expected parse failure for %q", input)
	}
}

func TestEvaluate(t *testing.T) {
	snapshot := Snapshot{
		Points:              120,
		Levels:              2,
		CompletedActivities: 4,
		Plays:               9,
		DiagnosticAverage:   75.5,
	}

	satisfied, err := Parse("puntos >= 100 y niveles >= 2")
	require.NoError(t, err)
	require.True(t, satisfied.Evaluate(snapshot))

	unsatisfied, err := Parse("puntos >= 100 y actividades >= 5")
	require.NoError(t, err)
	require.False(t, unsatisfied.Evaluate(snapshot))

	diagnostic, err := Parse("diagnostico > 70")
	require.NoError(t, err)
	require.True(t, diagnostic.Evaluate(snapshot))
}

func TestEvaluateEmptyPredicateIsFalse(t *testing.T) {
	require.False(t, Predicate{}.Evaluate(Snapshot{Points: 1000}))
}
