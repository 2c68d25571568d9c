// Package wordlist loads the phrase lists the excuse generator draws from.
package wordlist

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/randomizedcoder/norepeat"
)

// List holds the three phrase lists an excuse is built from.
type List struct {
	Intros  []string `yaml:"intros"`
	Names   []string `yaml:"names"`
	Excuses []string `yaml:"excuses"`
}

// Default returns the built-in word list.
func Default() *List {
	return &List{
		Intros: []string{
			"It's been great talking to you, but",
			"Look. I'll be completely honest with you.",
			"Sorry, I have to run, because",
			"I would love to stay, however",
			"You won't believe this, but",
		},
		Names: []string{
			"Bobby",
			"A snail",
			"My landlord",
			"The neighbour's cat",
			"Grandma",
		},
		Excuses: []string{
			"is trying to tag me",
			"has been perfecting its taco recipe and I gotta try it",
			"locked the keys in the car again",
			"needs help assembling a bookshelf",
			"started a band and the first gig is tonight",
		},
	}
}

// Load reads a YAML word list from path.
func Load(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Parse decodes a YAML word list from data.
func Parse(data []byte) (*List, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads a YAML word list from r. A key whose value is not a
// sequence of strings is reported as norepeat.ErrInvalidArgument.
func Decode(r io.Reader) (*List, error) {
	var doc map[string]any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode word list: empty document")
		}
		return nil, fmt.Errorf("decode word list: %w", err)
	}

	var (
		l    List
		errs error
	)
	for key, dst := range map[string]*[]string{
		"intros":  &l.Intros,
		"names":   &l.Names,
		"excuses": &l.Excuses,
	} {
		v, ok := doc[key]
		if !ok {
			continue
		}
		p, err := norepeat.NewFromValues[string](v)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", key, err))
			continue
		}
		*dst = p.Available()
	}
	if errs != nil {
		return nil, errs
	}

	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Validate reports every empty list.
func (l *List) Validate() error {
	var err error
	if len(l.Intros) == 0 {
		err = multierr.Append(err, errors.New("intros: list is empty"))
	}
	if len(l.Names) == 0 {
		err = multierr.Append(err, errors.New("names: list is empty"))
	}
	if len(l.Excuses) == 0 {
		err = multierr.Append(err, errors.New("excuses: list is empty"))
	}
	return err
}
