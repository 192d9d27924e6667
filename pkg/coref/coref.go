// Package coref resolves he, she and they to names mentioned in earlier
// sentences.
package coref

import (
	"context"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"

	"github.com/athapong/plasticity-go/pkg/sapien/core"
)

const (
	He   = "he"
	She  = "she"
	They = "they"
)

var pronouns = mapset.NewThreadUnsafeSet(He, She, They)

// IsPronoun reports whether e is one of the pronouns the resolver handles.
func IsPronoun(e *core.Entity) bool {
	return e != nil && e.Text != nil && pronouns.Contains(strings.ToLower(*e.Text))
}

// NameClassifier is satisfied by *names.Endpoint.
type NameClassifier interface {
	IsMaleName(ctx context.Context, name string) (bool, error)
	IsFemaleName(ctx context.Context, name string) (bool, error)
	IsFirstName(ctx context.Context, name string) (bool, error)
}

type Resolver struct {
	names  NameClassifier
	logger *logrus.Logger
}

type Option func(*Resolver)

func WithLogger(logger *logrus.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func NewResolver(names NameClassifier, opts ...Option) *Resolver {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	r := &Resolver{names: names, logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve rewrites sentence with pronoun replaced by the entity it most
// likely refers to. history is oldest first, one batch of entities per
// earlier sentence. When nothing matches the sentence text is returned as is.
func (r *Resolver) Resolve(ctx context.Context, sentence *core.Sentence, pronoun *core.Entity, history [][]*core.Entity) (string, error) {
	original := ""
	if sentence != nil && sentence.Text != nil {
		original = *sentence.Text
	}
	if sentence == nil || pronoun == nil || pronoun.Text == nil || pronoun.Index == nil {
		return original, nil
	}

	index := *pronoun.Index
	if index < 0 || index >= len(sentence.Tokens) {
		return original, nil
	}

	replacement, found, err := r.Antecedent(ctx, pronoun, history)
	if err != nil {
		return "", err
	}
	if !found {
		return original, nil
	}

	words := make([]string, len(sentence.Tokens))
	for i, t := range sentence.Tokens {
		words[i] = t.Text
	}
	words[index] = replacement
	return strings.Join(words, " "), nil
}

// Antecedent returns the text pronoun refers to, looked up in history
// (oldest batch first). found is false for words that are not he, she or
// they and when no earlier entity fits.
func (r *Resolver) Antecedent(ctx context.Context, pronoun *core.Entity, history [][]*core.Entity) (replacement string, found bool, err error) {
	if pronoun == nil || pronoun.Text == nil {
		return "", false, nil
	}
	word := strings.ToLower(*pronoun.Text)
	if !pronouns.Contains(word) {
		return "", false, nil
	}
	switch word {
	case He:
		replacement, found, err = r.newest(ctx, history, r.names.IsMaleName)
	case She:
		replacement, found, err = r.newest(ctx, history, r.names.IsFemaleName)
	case They:
		replacement, found, err = r.group(ctx, history)
	}
	if err != nil {
		return "", false, err
	}

	log := r.logger.WithField("pronoun", word)
	if pronoun.Index != nil {
		log = log.WithField("index", *pronoun.Index)
	}
	if !found {
		log.Debug("No antecedent found")
		return "", false, nil
	}
	log.WithField("antecedent", replacement).Debug("Resolved pronoun")
	return replacement, true, nil
}

// newest returns the first entity, scanning batches newest first, that
// matches.
func (r *Resolver) newest(ctx context.Context, history [][]*core.Entity, matches func(context.Context, string) (bool, error)) (string, bool, error) {
	for i := len(history) - 1; i >= 0; i-- {
		for _, e := range history[i] {
			if e == nil || e.Text == nil {
				continue
			}
			ok, err := matches(ctx, *e.Text)
			if err != nil {
				return "", false, err
			}
			if ok {
				return *e.Text, true, nil
			}
		}
	}
	return "", false, nil
}

// group collects first names batch by batch, newest first, until more than
// one has been found.
func (r *Resolver) group(ctx context.Context, history [][]*core.Entity) (string, bool, error) {
	var found []string
	for i := len(history) - 1; i >= 0 && len(found) < 2; i-- {
		for _, e := range history[i] {
			if e == nil || e.Text == nil {
				continue
			}
			ok, err := r.names.IsFirstName(ctx, *e.Text)
			if err != nil {
				return "", false, err
			}
			if ok {
				found = append(found, *e.Text)
			}
		}
	}
	if len(found) < 2 {
		return "", false, nil
	}
	return strings.Join(found, " and "), true, nil
}
