package wordlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/randomizedcoder/norepeat"
)

const sample = `
intros:
  - "Sorry, but"
  - "Honestly,"
names:
  - Bobby
excuses:
  - is trying to tag me
  - needs a ride
`

func TestParse(t *testing.T) {
	l, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Equal(t, []string{"Sorry, but", "Honestly,"}, l.Intros)
	require.Equal(t, []string{"Bobby"}, l.Names)
	require.Equal(t, []string{"is trying to tag me", "needs a ride"}, l.Excuses)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	l, err := Load(path)
	require.NoError(t, err)
	require.Len(t, l.Excuses, 2)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseNotASequence(t *testing.T) {
	doc := `
intros: "just one string"
names: [Bobby]
excuses:
  reason: none
`
	_, err := Parse([]byte(doc))
	require.ErrorIs(t, err, norepeat.ErrInvalidArgument)
	require.Len(t, multierr.Errors(err), 2)
}

func TestParseWrongElementType(t *testing.T) {
	doc := `
intros: [hello]
names: [Bobby, 42]
excuses: [is late]
`
	_, err := Parse([]byte(doc))
	require.ErrorIs(t, err, norepeat.ErrInvalidArgument)
	require.ErrorContains(t, err, "names")
}

func TestParseEmptyLists(t *testing.T) {
	_, err := Parse([]byte("intros: []\nnames: [Bobby]\n"))
	require.Error(t, err)
	require.Len(t, multierr.Errors(err), 2)
}

func TestParseEmptyDocument(t *testing.T) {
	_, err := Parse(nil)
	require.ErrorContains(t, err, "empty document")
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte("intros: [unterminated"))
	require.Error(t, err)
}

func TestDefault(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadShippedList(t *testing.T) {
	l, err := Load("../../wordlists/excuses.yaml")
	require.NoError(t, err)
	require.Contains(t, l.Names, "A snail")
}
