package importers

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/cobit"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/users"
)

// Importer writes catalogue documents into the feature stores.
type Importer struct {
	users     *users.Store
	catalogue *cobit.Store
}

// New creates an Importer.
func New(userStore *users.Store, catalogue *cobit.Store) *Importer {
	return &Importer{users: userStore, catalogue: catalogue}
}

// Parse decodes a catalogue document. Unknown keys are rejected.
func Parse(r io.Reader) (*Catalogue, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalogue
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return &c, nil
		}
		return nil, fmt.Errorf("parsing catalogue: %w", err)
	}
	for _, p := range c.Processes {
		if p.Code == "" {
			return nil, fmt.Errorf("process without code")
		}
		if cobit.DomainFromCode(p.Code) == "" {
			return nil, fmt.Errorf("process %s: code does not start with a COBIT domain", p.Code)
		}
		for _, ctl := range p.Controls {
			if ctl.Code == "" {
				return nil, fmt.Errorf("process %s: control without code", p.Code)
			}
		}
	}
	for _, u := range c.Users {
		if u.Name == "" {
			return nil, fmt.Errorf("user %q: name is required", u.ID)
		}
	}
	return &c, nil
}

// Import parses r and creates the users, processes and controls it lists.
// Importing the same document twice creates nothing the second time.
func (im *Importer) Import(ctx context.Context, r io.Reader) (Summary, error) {
	c, err := Parse(r)
	if err != nil {
		return Summary{}, err
	}
	return im.Apply(ctx, c)
}

// Apply writes an already parsed catalogue.
func (im *Importer) Apply(ctx context.Context, c *Catalogue) (Summary, error) {
	var sum Summary

	for _, u := range c.Users {
		if u.ID != "" {
			if _, err := im.users.GetByID(ctx, u.ID); err == nil {
				sum.Skipped++
				continue
			} else if !errors.Is(err, users.ErrNotFound) {
				return sum, err
			}
		}
		if _, err := im.users.Create(ctx, users.User{ID: u.ID, Name: u.Name, Email: u.Email, Role: users.Role(u.Role)}); err != nil {
			return sum, fmt.Errorf("user %s: %w", u.Name, err)
		}
		sum.Users++
	}

	for _, pe := range c.Processes {
		p, err := im.catalogue.ProcessByCode(ctx, pe.Code)
		switch {
		case err == nil:
			sum.Skipped++
		case errors.Is(err, cobit.ErrNotFound):
			p, err = im.catalogue.CreateProcess(ctx, cobit.Process{Code: pe.Code, Name: pe.Name})
			if err != nil {
				return sum, err
			}
			sum.Processes++
		default:
			return sum, err
		}

		for _, ce := range pe.Controls {
			exists, err := im.catalogue.ControlExists(ctx, ce.Code)
			if err != nil {
				return sum, err
			}
			if exists {
				sum.Skipped++
				continue
			}
			if _, err := im.catalogue.CreateControl(ctx, cobit.Control{Code: ce.Code, Statement: ce.Statement, ProcessID: p.ID}); err != nil {
				return sum, fmt.Errorf("control %s: %w", ce.Code, err)
			}
			sum.Controls++
		}
	}
	return sum, nil
}
