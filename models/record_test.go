package models_test

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xiaoyuanzhu-com/platform-go/models"
)

type gadgetColor string

const (
	gadgetColorRed  gadgetColor = "red"
	gadgetColorBlue gadgetColor = "blue"
)

var gadgetColors = models.NewEnum("gadgetColor", gadgetColorRed, gadgetColorBlue)

func (c gadgetColor) Validate() error { return gadgetColors.Validate(c) }

type part struct{ models.Record }

func (r *part) Name() (string, error) { return models.Get[string](r, "name") }

func (r *part) Validate() error {
	return models.Validate(r, models.Field("name", r.Name))
}

type gadget struct{ models.Record }

func (r *gadget) ID() (string, error)                    { return models.Get[string](r, "id") }
func (r *gadget) SetID(v string) error                   { return models.Set(r, "id", v) }
func (r *gadget) Count() (*int, error)                   { return models.GetOptional[int](r, "count") }
func (r *gadget) SetCount(v *int) error                  { return models.SetOptional(r, "count", v) }
func (r *gadget) Note() (models.Nullable[string], error) { return models.GetNullable[string](r, "note") }
func (r *gadget) SetNote(v models.Nullable[string]) error {
	return models.SetNullable(r, "note", v)
}
func (r *gadget) Color() (*gadgetColor, error)   { return models.GetOptional[gadgetColor](r, "color") }
func (r *gadget) Parts() (*[]part, error)        { return models.GetOptional[[]part](r, "parts") }
func (r *gadget) SetParts(v *[]part) error       { return models.SetOptional(r, "parts", v) }
func (r *gadget) Extra() (*models.Value, error)  { return models.GetOptional[models.Value](r, "extra") }
func (r *gadget) SetExtra(v *models.Value) error { return models.SetOptional(r, "extra", v) }

func (r *gadget) Validate() error {
	return models.Validate(r,
		models.Field("id", r.ID),
		models.OptionalField("count", r.Count),
		models.Field("note", r.Note),
		models.OptionalField("color", r.Color),
		models.OptionalItems("parts", r.Parts),
		models.OptionalField("extra", r.Extra),
	)
}

func decodeGadget(t *testing.T, data string) *gadget {
	t.Helper()
	g := &gadget{}
	require.NoError(t, json.Unmarshal([]byte(data), g))
	return g
}

func TestOptionalFieldNeverSetMatchesNilAssignment(t *testing.T) {
	unset := &gadget{}
	require.NoError(t, unset.SetID("abc"))

	assignedNil := &gadget{}
	require.NoError(t, assignedNil.SetID("abc"))
	require.NoError(t, assignedNil.SetCount(nil))

	for _, g := range []*gadget{unset, assignedNil} {
		require.False(t, g.Has("count"))
		count, err := g.Count()
		require.NoError(t, err)
		require.Nil(t, count)
	}
	require.True(t, models.Equal(unset, assignedNil))
}

func TestNullableExplicitNullIsStored(t *testing.T) {
	withNull := &gadget{}
	require.NoError(t, withNull.SetID("abc"))
	require.NoError(t, withNull.SetNote(models.Null[string]()))

	without := &gadget{}
	require.NoError(t, without.SetID("abc"))
	require.NoError(t, without.SetNote(models.Nullable[string]{}))

	require.True(t, withNull.Has("note"))
	raw, ok := withNull.Field("note")
	require.True(t, ok)
	require.Equal(t, models.KindNull, raw.Kind())
	require.False(t, without.Has("note"))

	note, err := withNull.Note()
	require.NoError(t, err)
	require.True(t, note.IsNull())

	note, err = without.Note()
	require.NoError(t, err)
	require.False(t, note.IsPresent())

	data, err := withNull.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"abc","note":null}`, string(data))
	require.False(t, models.Equal(withNull, without))
}

func TestNullSurvivesRoundTripAndClone(t *testing.T) {
	g := decodeGadget(t, `{"id":"abc","note":null}`)

	c := models.Clone(g)
	require.True(t, c.Has("note"))

	data, err := g.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `{"id":"abc","note":null}`, string(data))
}

func TestZeroCountIsPresent(t *testing.T) {
	g := &gadget{}
	require.NoError(t, g.SetID("abc"))
	require.NoError(t, g.SetCount(models.Ptr(0)))

	data, err := g.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `{"id":"abc","count":0}`, string(data))

	back := decodeGadget(t, string(data))
	require.True(t, models.Equal(g, back))

	count, err := back.Count()
	require.NoError(t, err)
	require.NotNil(t, count)
	require.Equal(t, 0, *count)

	bare := &gadget{}
	require.NoError(t, bare.SetID("abc"))
	count, err = bare.Count()
	require.NoError(t, err)
	require.Nil(t, count)
	require.NotContains(t, bare.Keys(), "count")
}

func TestRoundTripKeepsUnknownFields(t *testing.T) {
	g := &gadget{}
	require.NoError(t, g.SetID("abc"))
	require.NoError(t, g.SetField("x-trace", models.MustValue(map[string]any{"span": 7})))
	require.NoError(t, g.SetExtra(models.Ptr(models.MustValue([]any{1, "two", nil}))))

	data, err := g.MarshalJSON()
	require.NoError(t, err)

	back := decodeGadget(t, string(data))
	require.True(t, models.Equal(g, back))
	require.Equal(t, []string{"id", "x-trace", "extra"}, back.Keys())
}

func TestWireBytesAreStable(t *testing.T) {
	wire := `{"id":"abc","zeta":{"b": 1,  "a":[3, 2]},"count":0,"big":12345678901234567890,"caf\u00e9":"\u00e9"}`
	g := decodeGadget(t, wire)

	data, err := g.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, wire, string(data))
}

func TestEscapedKeyKeepsWireForm(t *testing.T) {
	g := decodeGadget(t, `{"caf\u00e9":1}`)
	require.Equal(t, []string{"café"}, g.Keys())

	c := models.Clone(g)
	data, err := c.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `{"caf\u00e9":1}`, string(data))

	fresh := &gadget{}
	require.NoError(t, models.Set(fresh, "café", 1))
	data, err = fresh.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `{"café":1}`, string(data))
}

func TestCloneIsIndependent(t *testing.T) {
	g := &gadget{}
	require.NoError(t, g.SetID("abc"))

	c := models.Clone(g)
	require.False(t, c.IsFrozen())

	require.NoError(t, g.SetID("changed"))
	require.NoError(t, g.SetCount(models.Ptr(3)))

	id, err := c.ID()
	require.NoError(t, err)
	require.Equal(t, "abc", id)
	require.False(t, c.Has("count"))
}

func TestCloneThenPatch(t *testing.T) {
	g := decodeGadget(t, `{"id":"abc","count":1}`)
	_, err := g.ID()
	require.NoError(t, err)
	require.True(t, g.IsFrozen())

	c := models.Clone(g)
	require.True(t, models.Equal(g, models.Clone(g)))
	require.NoError(t, c.SetCount(models.Ptr(2)))
	require.Equal(t, []string{"id", "count"}, c.Keys())
	require.False(t, models.Equal(g, c))
}

func TestAssignmentAfterReadIsRejected(t *testing.T) {
	g := &gadget{}
	require.NoError(t, g.SetID("abc"))

	_, err := g.ID()
	require.NoError(t, err)

	err = g.SetCount(models.Ptr(1))
	require.ErrorIs(t, err, models.ErrFrozen)
	require.ErrorIs(t, g.SetField("other", models.NullValue()), models.ErrFrozen)
	require.Equal(t, 1, g.Len())

	// nil is "not provided", not an assignment
	require.NoError(t, g.SetCount(nil))
}

func TestStringFreezes(t *testing.T) {
	g := &gadget{}
	require.NoError(t, g.SetID("abc"))

	out := g.String()
	require.Contains(t, out, `"id": "abc"`)
	require.True(t, g.IsFrozen())

	empty := &gadget{}
	require.Equal(t, "{}", empty.String())
}

func TestSetKeepsPosition(t *testing.T) {
	g := &gadget{}
	require.NoError(t, g.SetID("a"))
	require.NoError(t, g.SetCount(models.Ptr(1)))
	require.NoError(t, g.SetID("b"))

	data, err := g.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `{"id":"b","count":1}`, string(data))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		wire    string
		wantErr bool
	}{
		{"minimal", `{"id":"abc"}`, false},
		{"unknown keys ignored", `{"id":"abc","future":{"x":[1,{"y":null}]},"other":"z"}`, false},
		{"all fields", `{"id":"abc","count":2,"note":"n","color":"red","parts":[{"name":"p"}],"extra":null}`, false},
		{"null optional", `{"id":"abc","count":null,"color":null}`, false},
		{"missing id", `{"count":1}`, true},
		{"id wrong type", `{"id":42}`, true},
		{"id null", `{"id":null}`, true},
		{"unknown enum", `{"id":"abc","color":"green"}`, true},
		{"nested missing", `{"id":"abc","parts":[{"name":"p"},{}]}`, true},
		{"parts not array", `{"id":"abc","parts":{"name":"p"}}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := decodeGadget(t, tt.wire)
			err := g.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestMissingRequiredFieldError(t *testing.T) {
	g := decodeGadget(t, `{"count":1}`)

	err := g.Validate()
	var missing *models.MissingRequiredFieldError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, "id", missing.Key)
	require.Equal(t, "models_test.gadget", missing.Type)
}

func TestTypeMismatchError(t *testing.T) {
	g := decodeGadget(t, `{"id":"abc","count":"three"}`)

	_, err := g.Count()
	var mismatch *models.TypeMismatchError
	require.True(t, errors.As(err, &mismatch))
	require.Equal(t, "count", mismatch.Key)
	require.Equal(t, "int", mismatch.Expected)
	require.Equal(t, "string", mismatch.Actual)
	require.Error(t, errors.Unwrap(err))
}

func TestUnknownEnumDecodesButFailsValidate(t *testing.T) {
	g := decodeGadget(t, `{"id":"abc","color":"green"}`)

	color, err := g.Color()
	require.NoError(t, err)
	require.Equal(t, gadgetColor("green"), *color)
	require.False(t, gadgetColors.IsKnown(*color))

	var mismatch *models.TypeMismatchError
	err = g.Validate()
	require.True(t, errors.As(err, &mismatch))
	require.Equal(t, `"green"`, mismatch.Actual)
	require.Equal(t, "models_test.gadget", mismatch.Type)
	require.Equal(t, "color", mismatch.Key)
	require.Contains(t, err.Error(), "models_test.gadget.color:")
}

func TestUnknownEnumInListNamesKey(t *testing.T) {
	type palette struct{ models.Record }
	p := &palette{}
	require.NoError(t, p.UnmarshalJSON([]byte(`{"colors":["red","teal"]}`)))

	err := models.Validate(p, models.Items("colors", func() ([]gadgetColor, error) {
		return models.Get[[]gadgetColor](p, "colors")
	}))
	var mismatch *models.TypeMismatchError
	require.True(t, errors.As(err, &mismatch))
	require.Equal(t, "colors", mismatch.Key)
	require.True(t, strings.HasPrefix(err.Error(), "item 1:"))
}

func TestNestedValidationNamesItem(t *testing.T) {
	g := decodeGadget(t, `{"id":"abc","parts":[{"name":"p"},{"label":"x"}]}`)

	err := g.Validate()
	var missing *models.MissingRequiredFieldError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, "models_test.part", missing.Type)
	require.True(t, strings.HasPrefix(err.Error(), "item 1:"))
}

func TestNestedRecordsEncode(t *testing.T) {
	p := part{}
	require.NoError(t, models.Set(&p, "name", "bolt"))

	g := &gadget{}
	require.NoError(t, g.SetID("abc"))
	require.NoError(t, g.SetParts(&[]part{p}))

	data, err := g.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `{"id":"abc","parts":[{"name":"bolt"}]}`, string(data))
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"field order ignored", `{"id":"a","count":1}`, `{"count":1,"id":"a"}`, true},
		{"nested order ignored", `{"x":{"a":1,"b":2}}`, `{"x":{"b":2,"a":1}}`, true},
		{"numbers by value", `{"n":1}`, `{"n":1.0}`, true},
		{"exponent by value", `{"n":1e2}`, `{"n":100}`, true},
		{"integers beyond float precision", `{"id":"x","seq":9007199254740993}`, `{"id":"x","seq":9007199254740992}`, false},
		{"large integers equal", `{"seq":12345678901234567891}`, `{"seq":12345678901234567891}`, true},
		{"array order matters", `{"x":[1,2]}`, `{"x":[2,1]}`, false},
		{"null differs from absent", `{"id":"a","note":null}`, `{"id":"a"}`, false},
		{"null differs from empty string", `{"note":null}`, `{"note":""}`, false},
		{"extra key", `{"id":"a"}`, `{"id":"a","z":true}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := decodeGadget(t, tt.a), decodeGadget(t, tt.b)
			require.Equal(t, tt.want, models.Equal(a, b))
			require.True(t, a.IsFrozen())
		})
	}
}

func TestValueEqualComparesNumbersExactly(t *testing.T) {
	raw := func(s string) models.Value {
		v, err := models.RawValue([]byte(s))
		require.NoError(t, err)
		return v
	}
	require.False(t, raw("12345678901234567891").Equal(raw("12345678901234567890")))
	require.True(t, raw("-0.50").Equal(raw("-5e-1")))
	require.True(t, raw("[1,2.0]").Equal(raw("[1.0,2]")))
}

func TestFromRawUncheckedIsLazy(t *testing.T) {
	obj := models.Object{
		{Key: "id", Value: models.MustValue(7)},
		{Key: "count", Value: models.MustValue("many")},
	}

	g := models.FromRawUnchecked[gadget](obj)
	require.Equal(t, 2, g.Len())
	require.False(t, g.IsFrozen())

	_, err := g.ID()
	require.Error(t, err)
	require.Error(t, g.Validate())
}

func TestUnmarshalRejectsNonObjects(t *testing.T) {
	g := &gadget{}
	require.ErrorIs(t, json.Unmarshal([]byte(`[1,2]`), g), models.ErrNotObject)

	_, err := models.ParseObject([]byte(`{"id":`))
	require.ErrorIs(t, err, models.ErrInvalidJSON)
}

func TestURLQuery(t *testing.T) {
	g := decodeGadget(t, `{"status":"running","limit":10,"tags":["a","b"],"filter":{"court":"supreme"},"cursor":null,"ok":true}`)

	q := models.URLQuery(g)
	require.Equal(t, "running", q.Get("status"))
	require.Equal(t, "10", q.Get("limit"))
	require.Equal(t, []string{"a", "b"}, q["tags"])
	require.Equal(t, "supreme", q.Get("filter[court]"))
	require.Equal(t, "true", q.Get("ok"))
	require.NotContains(t, q, "cursor")
}

func TestFrozenRecordConcurrentReads(t *testing.T) {
	g := decodeGadget(t, `{"id":"abc","count":3,"parts":[{"name":"p"}]}`)
	g.Freeze()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := g.Validate(); err != nil {
				t.Error(err)
			}
			_, _ = g.MarshalJSON()
		}()
	}
	wg.Wait()
}
