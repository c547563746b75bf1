package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kycdocs/constants"
)

func TestMasterShape(t *testing.T) {
	assert.Len(t, Master, 36)
	assert.Len(t, ExpectedFields(constants.TaxRegistration), 6)
	assert.Len(t, ExpectedFields(constants.NationalID), 17)
	assert.Len(t, ExpectedFields(constants.BankCertification), 13)
	assert.Empty(t, ExpectedFields(constants.Unknown))

	// Field names are unique within each document class.
	seen := map[string]bool{}
	for _, e := range Master {
		key := e.DocID + "/" + e.Field
		assert.False(t, seen[key], "duplicate dictionary entry %s", key)
		seen[key] = true
	}
}

func TestCompleteness(t *testing.T) {
	expected := []string{"a", "b", "c", "d"}

	t.Run("nil on empty values", func(t *testing.T) {
		assert.Nil(t, Completeness(nil, expected))
		assert.Nil(t, Completeness(map[string]*string{}, expected))
	})

	t.Run("nil on empty expectations", func(t *testing.T) {
		assert.Nil(t, Completeness(map[string]*string{"a": ptr("x")}, nil))
	})

	t.Run("all-null record scores zero", func(t *testing.T) {
		values := map[string]*string{"a": nil, "b": nil, "c": nil, "d": nil}
		got := Completeness(values, expected)
		require.NotNil(t, got)
		assert.Equal(t, 0.0, *got)
	})

	t.Run("counts non-empty values only", func(t *testing.T) {
		values := map[string]*string{
			"a": ptr("x"),
			"b": nil,
			"c": ptr("   "),
			"d": ptr("y"),
		}
		got := Completeness(values, expected)
		require.NotNil(t, got)
		assert.Equal(t, 50.0, *got)
	})

	t.Run("rounds to one decimal", func(t *testing.T) {
		values := map[string]*string{"a": ptr("x")}
		got := Completeness(values, []string{"a", "b", "c"})
		require.NotNil(t, got)
		assert.Equal(t, 33.3, *got)
	})

	t.Run("monotonic in filled fields", func(t *testing.T) {
		less := map[string]*string{"a": ptr("x")}
		more := map[string]*string{"a": ptr("x"), "b": ptr("y")}
		lo := Completeness(less, expected)
		hi := Completeness(more, expected)
		require.NotNil(t, lo)
		require.NotNil(t, hi)
		assert.Less(t, *lo, *hi)
	})
}

func TestEffectiveValuesForcesLabels(t *testing.T) {
	t.Run("cedula doc_tipo always forced", func(t *testing.T) {
		values := map[string]*string{"doc_tipo": ptr("lo que dijo el modelo")}
		out := EffectiveValues(constants.NationalID, values)
		require.NotNil(t, out["doc_tipo"])
		assert.Equal(t, CedulaDocTipoLabel, *out["doc_tipo"])
	})

	t.Run("cedula defaults fill only missing", func(t *testing.T) {
		values := map[string]*string{
			"doc_pais_emisor":    nil,
			"doc_tipo_documento": ptr("CÉDULA DE CIUDADANÍA"),
		}
		out := EffectiveValues(constants.NationalID, values)
		require.NotNil(t, out["doc_pais_emisor"])
		assert.Equal(t, "República de Colombia", *out["doc_pais_emisor"])
		assert.Equal(t, "CÉDULA DE CIUDADANÍA", *out["doc_tipo_documento"])
	})

	t.Run("bank cert doc_tipo forced", func(t *testing.T) {
		out := EffectiveValues(constants.BankCertification, map[string]*string{})
		require.NotNil(t, out["doc_tipo"])
		assert.Equal(t, BankCertDocTipoLabel, *out["doc_tipo"])
	})

	t.Run("tax registration untouched", func(t *testing.T) {
		values := map[string]*string{"tipo_documento": ptr("x")}
		out := EffectiveValues(constants.TaxRegistration, values)
		assert.Equal(t, values["tipo_documento"], out["tipo_documento"])
		assert.Len(t, out, 1)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, EffectiveValues(constants.NationalID, nil))
	})

	t.Run("input map is not mutated", func(t *testing.T) {
		values := map[string]*string{}
		_ = EffectiveValues(constants.NationalID, values)
		assert.Empty(t, values)
	})
}

func TestConsolidate(t *testing.T) {
	t.Run("no records still yields full table", func(t *testing.T) {
		rows := Consolidate(nil)
		require.Len(t, rows, len(Master))
		for _, row := range rows {
			assert.Nil(t, row.Valor)
		}
	})

	t.Run("dictionary order preserved", func(t *testing.T) {
		rows := Consolidate(nil)
		for i := range rows {
			assert.Equal(t, Master[i].Field, rows[i].Field)
			assert.Equal(t, Master[i].DocID, rows[i].DocID)
		}
	})

	t.Run("values land on the right rows", func(t *testing.T) {
		records := map[constants.DocKind]map[string]*string{
			constants.TaxRegistration: {"numero_identificacion": ptr("1032456789")},
			constants.NationalID:      {"doc_numero": ptr("1032456789")},
		}
		rows := Consolidate(records)

		byKey := map[string]*string{}
		for _, row := range rows {
			byKey[row.DocID+"/"+row.Field] = row.Valor
		}
		require.NotNil(t, byKey["DOC14/numero_identificacion"])
		assert.Equal(t, "1032456789", *byKey["DOC14/numero_identificacion"])
		require.NotNil(t, byKey["DOC12/doc_numero"])
		assert.Equal(t, "1032456789", *byKey["DOC12/doc_numero"])

		// Forced dictionary label shows through consolidation.
		require.NotNil(t, byKey["DOC12/doc_tipo"])
		assert.Equal(t, CedulaDocTipoLabel, *byKey["DOC12/doc_tipo"])

		// The absent bank certification keeps empty rows.
		assert.Nil(t, byKey["DOC16/banco_nombre"])
	})
}
