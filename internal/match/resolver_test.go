package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fantalink/fantalink-data/internal/roster"
)

func buildTestIndex(t *testing.T, rows []map[string]string, requireTeam bool) *Index {
	t.Helper()
	return BuildIndex(rows, BuildOptions{
		Schema:      roster.SeasonTotals,
		RequireTeam: requireTeam,
	}, nil)
}

func TestBuildIndexSkipsRowsWithoutName(t *testing.T) {
	ix := buildTestIndex(t, []map[string]string{
		{"team": "roma", "partite": "10"},
		{"player": "   ", "team": "roma"},
		{"player": "Paolo Rossi", "team": "Roma", "partite": "30"},
	}, true)
	assert.Equal(t, 1, ix.Len())
}

func TestBuildIndexTeamRequired(t *testing.T) {
	rows := []map[string]string{
		{"player": "Paolo Rossi", "partite": "30"},
	}
	assert.Equal(t, 0, buildTestIndex(t, rows, true).Len())

	// Team-optional: indexed globally even without a team.
	ix := buildTestIndex(t, rows, false)
	assert.Equal(t, 1, ix.Len())
	rec := ix.Resolve("", "Paolo Rossi")
	require.NotNil(t, rec)
	assert.Equal(t, "30", rec.Stat("partite"))
}

func TestBuildIndexDefaultsMissingStats(t *testing.T) {
	ix := buildTestIndex(t, []map[string]string{
		{"player": "Paolo Rossi", "team": "Roma", "partite": "30", "goal": " "},
	}, true)
	rec := ix.Resolve("roma", "Paolo Rossi")
	require.NotNil(t, rec)
	assert.Equal(t, "30", rec.Stat("partite"))
	assert.Equal(t, "0", rec.Stat("goal"))
	assert.Equal(t, "0", rec.Stat("rossi"))
}

func TestBuildIndexHeaderAliases(t *testing.T) {
	ix := buildTestIndex(t, []map[string]string{
		{"Giocatore": "Mario Verdi", "Squadra": "Milan", "Partite": "12"},
	}, true)
	rec := ix.Resolve("milan", "Mario Verdi")
	require.NotNil(t, rec)
	assert.Equal(t, "12", rec.Stat("partite"))
}

func TestResolveEmptyName(t *testing.T) {
	ix := buildTestIndex(t, []map[string]string{
		{"player": "Paolo Rossi", "team": "Roma"},
	}, true)
	assert.Nil(t, ix.Resolve("roma", ""))
	assert.Nil(t, ix.Resolve("roma", "  ...  "))
}

func TestResolveExactTeamScoped(t *testing.T) {
	ix := buildTestIndex(t, []map[string]string{
		{"player": "Paolo Rossi", "team": "Roma", "partite": "30"},
	}, true)
	rec := ix.Resolve("roma", "Paolo Rossi")
	require.NotNil(t, rec)
	assert.Equal(t, "rossi", rec.Last)
	assert.Equal(t, "30", rec.Stat("partite"))
}

func TestResolveReversedNameOrder(t *testing.T) {
	// Some sources list the surname first.
	ix := buildTestIndex(t, []map[string]string{
		{"player": "Paolo Rossi", "team": "Roma", "partite": "30"},
	}, true)
	rec := ix.Resolve("roma", "Rossi Paolo")
	require.NotNil(t, rec)
	assert.Equal(t, "30", rec.Stat("partite"))
}

func TestResolveFirstNamePrefix(t *testing.T) {
	ix := buildTestIndex(t, []map[string]string{
		{"player": "Alessandro Bianchi", "team": "Inter", "partite": "5"},
		{"player": "Alessio Bianchi", "team": "Inter", "partite": "20"},
	}, true)
	// "Ale" prefixes both; first-inserted wins.
	rec := ix.Resolve("inter", "Ale Bianchi")
	require.NotNil(t, rec)
	assert.Equal(t, "5", rec.Stat("partite"))

	// "Alessi" prefixes only the second.
	rec = ix.Resolve("inter", "Alessi Bianchi")
	require.NotNil(t, rec)
	assert.Equal(t, "20", rec.Stat("partite"))
}

func TestResolveSurnameFallbackFirstRecord(t *testing.T) {
	ix := buildTestIndex(t, []map[string]string{
		{"player": "Marco Bianchi", "team": "Inter", "partite": "7"},
	}, true)
	// No prefix match on the first name, but the surname key exists:
	// fall back to the first record under it.
	rec := ix.Resolve("inter", "Zeno Bianchi")
	require.NotNil(t, rec)
	assert.Equal(t, "7", rec.Stat("partite"))
}

func TestResolveTeamHintSelectsTeamScoped(t *testing.T) {
	ix := buildTestIndex(t, []map[string]string{
		{"player": "Marco Bianchi", "team": "Inter", "partite": "7"},
		{"player": "Luca Bianchi", "team": "Torino", "partite": "22"},
	}, true)
	rec := ix.Resolve("torino", "Luca Bianchi")
	require.NotNil(t, rec)
	assert.Equal(t, "22", rec.Stat("partite"), "team hint must beat global first-inserted")
}

func TestResolveUnknownTeamFallsThroughToGlobal(t *testing.T) {
	ix := buildTestIndex(t, []map[string]string{
		{"player": "Paolo Rossi", "team": "Roma", "partite": "30"},
	}, true)
	rec := ix.Resolve("atlantide", "Paolo Rossi")
	require.NotNil(t, rec)
	assert.Equal(t, "30", rec.Stat("partite"))
}

func TestResolveFuzzySurname(t *testing.T) {
	ix := buildTestIndex(t, []map[string]string{
		{"player": "John Smith", "team": "Chelsea", "partite": "18"},
	}, true)
	// "smyth" vs "smith": similarity 0.8 >= 0.78.
	rec := ix.Resolve("chelsea", "John Smyth")
	require.NotNil(t, rec)
	assert.Equal(t, "18", rec.Stat("partite"))
}

func TestResolveFuzzyBelowCutoff(t *testing.T) {
	ix := buildTestIndex(t, []map[string]string{
		{"player": "John Smith", "team": "Chelsea", "partite": "18"},
	}, true)
	assert.Nil(t, ix.Resolve("chelsea", "Gianni Esposito"))
}

func TestResolveDiacriticsInQuery(t *testing.T) {
	ix := buildTestIndex(t, []map[string]string{
		{"player": "Jose Alvarez", "team": "Napoli", "partite": "9"},
	}, true)
	rec := ix.Resolve("napoli", "José Álvarez")
	require.NotNil(t, rec)
	assert.Equal(t, "9", rec.Stat("partite"))
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, similarity("rossi", "rossi"), 1e-9)
	assert.InDelta(t, 0.8, similarity("smith", "smyth"), 1e-9)
	assert.Less(t, similarity("smith", "esposito"), fuzzyCutoff)
}
