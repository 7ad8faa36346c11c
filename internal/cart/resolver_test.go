package cart

import (
	"testing"

	"gemkart/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(productID int64, quantity int, variantHash string, options model.Options) model.CartLine {
	return model.CartLine{
		ID:          uuid.New(),
		UserID:      "user-1",
		ProductID:   productID,
		VariantHash: variantHash,
		Quantity:    quantity,
		Options:     options,
	}
}

func TestDecideAdd_InsertWhenNoLines(t *testing.T) {
	decision := DecideAdd(nil, 1, model.Options{"size": "M"})

	assert.Equal(t, ActionInsert, decision.Action)
	assert.Nil(t, decision.Target)
}

func TestDecideAdd_MergeOnEqualOptions(t *testing.T) {
	existing := line(7, 1, "", model.Options{"size": "M"})

	decision := DecideAdd([]model.CartLine{existing}, 1, model.Options{"size": "M"})

	require.Equal(t, ActionMerge, decision.Action)
	assert.Equal(t, existing.ID, decision.Target.ID)
	assert.Equal(t, 2, decision.MergedQuantity)
}

func TestDecideAdd_ConflictOnDifferentOptions(t *testing.T) {
	existing := line(7, 1, "", model.Options{"size": "M"})

	decision := DecideAdd([]model.CartLine{existing}, 1, model.Options{"size": "L"})

	require.Equal(t, ActionConflict, decision.Action)
	assert.Equal(t, existing.ID, decision.Target.ID)
}

func TestDecideAdd_MissingKeyIsAbsentNotDefault(t *testing.T) {
	existing := line(7, 1, "", model.Options{"size": "M", "engraving": ""})

	decision := DecideAdd([]model.CartLine{existing}, 1, model.Options{"size": "M"})

	assert.Equal(t, ActionConflict, decision.Action)
}

func TestDecideAdd_EmptyAndNilOptionsMerge(t *testing.T) {
	existing := line(7, 2, "", model.Options{})

	decision := DecideAdd([]model.CartLine{existing}, 3, nil)

	require.Equal(t, ActionMerge, decision.Action)
	assert.Equal(t, 5, decision.MergedQuantity)
}

func TestDecideAdd_MergesIntoMatchingVariant(t *testing.T) {
	primary := line(7, 1, "", model.Options{"size": "M"})
	variant := line(7, 1, VariantHash(model.Options{"size": "L"}), model.Options{"size": "L"})

	decision := DecideAdd([]model.CartLine{primary, variant}, 2, model.Options{"size": "L"})

	require.Equal(t, ActionMerge, decision.Action)
	assert.Equal(t, variant.ID, decision.Target.ID)
	assert.Equal(t, 3, decision.MergedQuantity)
}

func TestDecideAdd_ConflictCarriesPrimaryLine(t *testing.T) {
	variant := line(7, 1, VariantHash(model.Options{"size": "L"}), model.Options{"size": "L"})
	primary := line(7, 1, "", model.Options{"size": "M"})

	decision := DecideAdd([]model.CartLine{variant, primary}, 1, model.Options{"size": "S"})

	require.Equal(t, ActionConflict, decision.Action)
	assert.Equal(t, primary.ID, decision.Target.ID)
}

func TestOptionsEqual(t *testing.T) {
	assert.True(t, OptionsEqual(nil, nil))
	assert.True(t, OptionsEqual(model.Options{}, nil))
	assert.True(t, OptionsEqual(model.Options{"a": "1"}, model.Options{"a": "1"}))
	assert.False(t, OptionsEqual(model.Options{"a": "1"}, model.Options{"a": "2"}))
	assert.False(t, OptionsEqual(model.Options{"a": "1"}, model.Options{"a": "1", "b": "2"}))
}

func TestVariantHash(t *testing.T) {
	a := VariantHash(model.Options{"size": "M", "metal": "gold"})
	b := VariantHash(model.Options{"metal": "gold", "size": "M"})
	c := VariantHash(model.Options{"size": "L", "metal": "gold"})

	assert.Equal(t, a, b, "hash must be independent of key order")
	assert.NotEqual(t, a, c)
	assert.Empty(t, VariantHash(nil))
	assert.Empty(t, VariantHash(model.Options{}))
}

func TestVariantHash_NoFieldCollision(t *testing.T) {
	a := VariantHash(model.Options{"ab": "c"})
	b := VariantHash(model.Options{"a": "bc"})

	assert.NotEqual(t, a, b)
}
