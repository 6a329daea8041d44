package formcheck_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formcheck"
)

func mustValidator(t *testing.T, doc string, opts ...formcheck.Option) *formcheck.Validator {
	t.Helper()
	v, err := formcheck.NewFromBytes([]byte(doc), opts...)
	require.NoError(t, err)
	require.NotNil(t, v)
	return v
}

func TestIngestion(t *testing.T) {
	t.Parallel()

	t.Run("preserves document order of sections and fields", func(t *testing.T) {
		t.Parallel()
		v := mustValidator(t, `
zebra:
  last: {}
  first: {}
alpha:
  only: {}
`)
		assert.Equal(t, []string{"zebra", "alpha"}, v.Sections())
		assert.Equal(t, []string{"last", "first"}, v.FieldNames("zebra"))
	})

	t.Run("required classification wins over optional", func(t *testing.T) {
		t.Parallel()
		v := mustValidator(t, `
profile:
  email:
    message: optional email
contact:
  email:
    type: required
    message: required email
`)
		assert.True(t, v.Required("email"))
		assert.Equal(t, "required email", v.Message("email"))
	})

	t.Run("first writer wins for conflicting optional definitions", func(t *testing.T) {
		t.Parallel()
		v := mustValidator(t, `
a:
  nick:
    message: first
b:
  nick:
    message: second
`)
		assert.False(t, v.Required("nick"))
		assert.Equal(t, "first", v.Message("nick"))
	})

	t.Run("required classification is never downgraded", func(t *testing.T) {
		t.Parallel()
		v := mustValidator(t, `
a:
  email:
    type: required
    message: keep me
b:
  email:
    message: shadowed
`)
		assert.True(t, v.Required("email"))
		assert.Equal(t, "keep me", v.Message("email"))
	})

	t.Run("accepts bare integer length bounds", func(t *testing.T) {
		t.Parallel()
		v := mustValidator(t, `
form:
  code:
    length: 8
`)
		ok, err := v.Check("code", "123456789")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = v.Check("code", "12345678")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ignores unrecognized rule attributes", func(t *testing.T) {
		t.Parallel()
		v := mustValidator(t, `
form:
  name:
    type: required
    color: purple
    frobnicate: true
`)
		assert.True(t, v.Required("name"))
	})

	t.Run("empty document yields an empty validator", func(t *testing.T) {
		t.Parallel()
		v := mustValidator(t, "")
		assert.Empty(t, v.Sections())
	})
}

func TestIngestionFailures(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		v, err := formcheck.New(filepath.Join(t.TempDir(), "nope.yml"))
		assert.Nil(t, v)
		require.Error(t, err)
		assert.ErrorIs(t, err, formcheck.ErrConfigNotFound)
		assert.Equal(t, "file does not exist", err.Error())
	})

	t.Run("existing file loads", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "rules.yml")
		require.NoError(t, os.WriteFile(path, []byte("form:\n  name:\n    type: required\n"), 0o600))

		v, err := formcheck.New(path)
		require.NoError(t, err)
		assert.True(t, v.Required("name"))
	})

	t.Run("unparsable document", func(t *testing.T) {
		t.Parallel()
		v, err := formcheck.NewFromBytes([]byte("form: [unclosed"))
		assert.Nil(t, v)
		assert.ErrorIs(t, err, formcheck.ErrRuleDocumentInvalid)
	})

	t.Run("document root is not a mapping", func(t *testing.T) {
		t.Parallel()
		v, err := formcheck.NewFromBytes([]byte("- a\n- b\n"))
		assert.Nil(t, v)
		assert.ErrorIs(t, err, formcheck.ErrRuleDocumentInvalid)
	})

	t.Run("section is not a mapping of fields", func(t *testing.T) {
		t.Parallel()
		v, err := formcheck.NewFromBytes([]byte("form: 42\n"))
		assert.Nil(t, v)
		assert.ErrorIs(t, err, formcheck.ErrRuleDocumentInvalid)
	})

	t.Run("uncompilable sub expression aborts construction when subs are enabled", func(t *testing.T) {
		t.Parallel()
		doc := "form:\n  code:\n    sub: 'value >'\n"

		v, err := formcheck.NewFromBytes([]byte(doc), formcheck.WithSubExpressions())
		assert.Nil(t, v)
		require.Error(t, err)
		var subErr *formcheck.SubError
		assert.ErrorAs(t, err, &subErr)

		// Without the gate the expression never compiles, so construction
		// succeeds and the gate trips at check time instead.
		v, err = formcheck.NewFromBytes([]byte(doc))
		require.NoError(t, err)
		_, err = v.Check("code", "anything")
		assert.ErrorIs(t, err, formcheck.ErrSubExpressionsDisabled)
	})
}
