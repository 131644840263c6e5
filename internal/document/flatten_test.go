package document

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	data := []byte(`{
		"o1": {"protocol": "P1", "title": "First", "zones": {"z1": {"s1": {"coordinates": [[41.9, 12.5]]}, "s2": null}}},
		"o2": {"metadata": {"protocol": "P2"}, "zones": {"empty": {}, "z2": {"s3": {}}}}
	}`)

	rows, loss, err := Flatten(data)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Loss{EmptyZones: 1}, loss)

	assert.Equal(t, 0, rows[0].Position)
	assert.Equal(t, "o1", rows[0].OrdinanceID)
	assert.Equal(t, "z1", rows[0].Zone)
	assert.Equal(t, "s1", rows[0].Street)
	assert.JSONEq(t, `{"protocol": "P1", "title": "First"}`, string(rows[0].Meta))
	assert.JSONEq(t, `null`, string(rows[1].Record))

	assert.Equal(t, 2, rows[2].Position)
	assert.Equal(t, "z2", rows[2].Zone)
	assert.JSONEq(t, `{"protocol": "P2"}`, string(rows[2].Meta))
}

func TestFlattenAssemble_MatchesDecode(t *testing.T) {
	data, err := os.ReadFile("../../testdata/coordinates.json")
	require.NoError(t, err)

	rows, loss, err := Flatten(data)
	require.NoError(t, err)
	assert.False(t, loss.Any())

	// Rows travel through the database as JSON; make sure nothing depends on the raw bytes.
	for i := range rows {
		var v interface{}
		require.NoError(t, json.Unmarshal(rows[i].Record, &v))
		rows[i].Record, _ = json.Marshal(v)
	}

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, decoded, Assemble(rows))
}

func TestFlatten_ReportsLoss(t *testing.T) {
	data := []byte(`{
		"bad body": 42,
		"bad zones": {"zones": "x"},
		"no zones": {"protocol": "P0"},
		"mixed": {"zones": {"empty": {}, "bad zone": [1], "z": {"s": null}}}
	}`)

	rows, loss, err := Flatten(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "mixed", rows[0].OrdinanceID)
	assert.Equal(t, Loss{EmptyOrdinances: 3, EmptyZones: 2, Skipped: 3}, loss)
	assert.True(t, loss.Any())

	// The decoder keeps what the flat form loses.
	doc, err := Decode(data)
	require.NoError(t, err)
	assert.Len(t, doc.Ordinances, 4)
	assert.Equal(t, 3, doc.Skipped)
}

func TestFlatten_RejectsIncompleteDocuments(t *testing.T) {
	for _, data := range []string{
		`{"OSP/1": {"zones": {"Centro": {"Via Roma": {"coordinates": [[41.90, 12.49]]}}}}`,
		`{"OSP/1": {"zones": {}}} trailing`,
		`{"A": {"zones": {}},`,
	} {
		_, _, err := Flatten([]byte(data))
		assert.ErrorIs(t, err, ErrNotObject, data)
	}
}
