package hrdirectory

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/assessor/internal/domain"
)

const unknownName = "Unknown"

// Variant names the response shape the directory answered with.
type Variant int

const (
	VariantUnknown Variant = iota
	// VariantFlat is {"email", "candidate_id", "name"}.
	VariantFlat
	// VariantNested is {"filteredResumes": [{"_id", "email", "name"}, ...]}.
	VariantNested
)

func (v Variant) String() string {
	switch v {
	case VariantFlat:
		return "flat"
	case VariantNested:
		return "filtered_resumes"
	default:
		return "unknown"
	}
}

const (
	nestedKey = "filteredResumes"
	flatKey   = "candidate_id"
)

func detectVariant(body map[string]any) Variant {
	if _, ok := body[nestedKey]; ok {
		return VariantNested
	}
	if _, ok := body[flatKey]; ok {
		return VariantFlat
	}
	return VariantUnknown
}

type flatResponse struct {
	Email       string  `mapstructure:"email"`
	CandidateID string  `mapstructure:"candidate_id"`
	Name        *string `mapstructure:"name"`
}

type filteredResume struct {
	ID    string  `mapstructure:"_id"`
	Email string  `mapstructure:"email"`
	Name  *string `mapstructure:"name"`
}

type nestedResponse struct {
	FilteredResumes []filteredResume `mapstructure:"filteredResumes"`
}

func mapIdentity(body map[string]any) (*domain.Identity, Variant, error) {
	variant := detectVariant(body)

	var identity domain.Identity
	var name *string
	switch variant {
	case VariantNested:
		var resp nestedResponse
		if err := decode(body, &resp); err != nil {
			return nil, variant, fmt.Errorf("%w: %v", domain.ErrUpstreamMalformed, err)
		}
		if len(resp.FilteredResumes) == 0 {
			return nil, variant, fmt.Errorf("%w: no candidate with this email", domain.ErrUpstreamNotFound)
		}
		first := resp.FilteredResumes[0]
		identity = domain.Identity{Email: first.Email, CandidateID: first.ID}
		name = first.Name
	case VariantFlat:
		var resp flatResponse
		if err := decode(body, &resp); err != nil {
			return nil, variant, fmt.Errorf("%w: %v", domain.ErrUpstreamMalformed, err)
		}
		identity = domain.Identity{Email: resp.Email, CandidateID: resp.CandidateID}
		name = resp.Name
	default:
		return nil, variant, fmt.Errorf("%w: unrecognized response shape", domain.ErrUpstreamMalformed)
	}

	// An absent name is tolerated, an explicitly empty one is not.
	identity.Name = unknownName
	if name != nil {
		identity.Name = *name
	}

	identity.Email = strings.TrimSpace(identity.Email)
	identity.CandidateID = strings.TrimSpace(identity.CandidateID)
	identity.Name = strings.TrimSpace(identity.Name)

	var missing []string
	if identity.Email == "" {
		missing = append(missing, "email")
	}
	if identity.CandidateID == "" {
		missing = append(missing, "candidate_id")
	}
	if identity.Name == "" {
		missing = append(missing, "name")
	}
	if len(missing) > 0 {
		return nil, variant, fmt.Errorf("%w: missing essential fields: %s", domain.ErrUpstreamMalformed, strings.Join(missing, ", "))
	}

	return &identity, variant, nil
}

func decode(input any, target any) error {
	cfg := &mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
