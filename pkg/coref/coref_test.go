package coref

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athapong/plasticity-go/pkg/sapien/core"
)

type fakeNames struct {
	male   map[string]bool
	female map[string]bool
	err    error
}

func (f fakeNames) IsMaleName(_ context.Context, name string) (bool, error) {
	return f.male[name], f.err
}

func (f fakeNames) IsFemaleName(_ context.Context, name string) (bool, error) {
	return f.female[name], f.err
}

func (f fakeNames) IsFirstName(_ context.Context, name string) (bool, error) {
	return f.male[name] || f.female[name], f.err
}

var classifier = fakeNames{
	male:   map[string]bool{"John": true, "Bill": true},
	female: map[string]bool{"Mary": true, "Sandra": true},
}

func sentence(text string, words ...string) *core.Sentence {
	s := &core.Sentence{Text: &text}
	for _, w := range words {
		s.Tokens = append(s.Tokens, core.Token{Text: w})
	}
	return s
}

func mention(text string, index int) *core.Entity {
	return &core.Entity{Text: &text, Index: &index}
}

func TestResolve_SheFindsFemaleName(t *testing.T) {
	r := NewResolver(classifier)
	s := sentence("Then she left .", "Then", "saw", "it", "she", "left", ".")
	history := [][]*core.Entity{{mention("Mary", 0)}}

	got, err := r.Resolve(context.Background(), s, mention("she", 3), history)
	require.NoError(t, err)
	assert.Equal(t, "Then saw it Mary left .", got)
}

func TestResolve_HeWithoutMaleNameIsUnchanged(t *testing.T) {
	r := NewResolver(classifier)
	s := sentence("He saw Mary.", "He", "saw", "Mary", ".")
	history := [][]*core.Entity{{mention("Mary", 0)}}

	got, err := r.Resolve(context.Background(), s, mention("He", 0), history)
	require.NoError(t, err)
	assert.Equal(t, "He saw Mary.", got)
}

func TestResolve_NewestBatchFirst(t *testing.T) {
	r := NewResolver(classifier)
	s := sentence("he ran", "he", "ran")
	history := [][]*core.Entity{
		{mention("John", 0)},
		{mention("ball", 1), mention("Bill", 2), mention("John", 3)},
	}

	got, err := r.Resolve(context.Background(), s, mention("he", 0), history)
	require.NoError(t, err)
	assert.Equal(t, "Bill ran", got)
}

func TestResolve_TheyNeedsTwoNames(t *testing.T) {
	r := NewResolver(classifier)
	s := sentence("they met", "they", "met")

	got, err := r.Resolve(context.Background(), s, mention("They", 0), [][]*core.Entity{
		{mention("Sandra", 0)},
		{mention("John", 0), mention("kitchen", 3), mention("Mary", 5)},
	})
	require.NoError(t, err)
	assert.Equal(t, "John and Mary met", got)

	got, err = r.Resolve(context.Background(), s, mention("they", 0), [][]*core.Entity{
		{mention("Sandra", 0)},
		{mention("John", 0)},
	})
	require.NoError(t, err)
	assert.Equal(t, "John and Sandra met", got)

	got, err = r.Resolve(context.Background(), s, mention("they", 0), [][]*core.Entity{{mention("John", 0)}})
	require.NoError(t, err)
	assert.Equal(t, "they met", got)
}

func TestResolve_UnknownPronounOrIndex(t *testing.T) {
	r := NewResolver(classifier)
	s := sentence("it fell", "it", "fell")
	history := [][]*core.Entity{{mention("John", 0)}}

	got, err := r.Resolve(context.Background(), s, mention("it", 0), history)
	require.NoError(t, err)
	assert.Equal(t, "it fell", got)

	got, err = r.Resolve(context.Background(), s, mention("he", 7), history)
	require.NoError(t, err)
	assert.Equal(t, "it fell", got)
}

func TestResolve_ClassifierErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	r := NewResolver(fakeNames{err: boom})
	s := sentence("she ran", "she", "ran")

	_, err := r.Resolve(context.Background(), s, mention("she", 0), [][]*core.Entity{{mention("Mary", 0)}})
	assert.Equal(t, boom, err)
}

func TestAntecedent(t *testing.T) {
	r := NewResolver(classifier)
	history := [][]*core.Entity{{mention("John", 0), mention("Mary", 2)}}

	name, ok, err := r.Antecedent(context.Background(), mention("He", 0), history)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "John", name)

	name, ok, err = r.Antecedent(context.Background(), mention("she", 2), history)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Mary", name)

	_, ok, err = r.Antecedent(context.Background(), mention("it", 1), history)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsPronoun(t *testing.T) {
	assert.True(t, IsPronoun(mention("They", 0)))
	assert.False(t, IsPronoun(mention("her", 0)))
	assert.False(t, IsPronoun(nil))
	assert.False(t, IsPronoun(&core.Entity{}))
}
