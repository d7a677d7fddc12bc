package usecase

import (
	"log"
	"strings"

	"github.com/listinglens/resolver/internal/domain"
)

// titleProbeLength bounds how much of a listing title the title stage
// inspects; the useful part of a title sits at the front.
const titleProbeLength = 30

// matchState is the value threaded through the pipeline stages. A nil
// state means a prior stage produced nothing; the zero value is the
// non-nil seed.
type matchState struct {
	manufacturer string
	product      *preparedProduct
}

// matchStage is one extract-plus-resolve step of the pipeline. extract
// pulls the stage's input field from the listing, reporting absence;
// resolve advances the state or returns nil for no match.
type matchStage interface {
	extract(listing domain.Listing) (string, bool)
	resolve(prior *matchState, value string) *matchState
}

// MatchPipeline resolves a listing to a catalog product by running its
// stages in order, short-circuiting as soon as a stage extracts nothing
// or resolves to nothing. Safe for concurrent use: the product index is
// immutable and the only mutable state is the manufacturer resolver's
// memo cache.
type MatchPipeline struct {
	stages []matchStage
	index  *productIndex
	debug  bool
}

// NewMatchPipeline builds the two-stage pipeline over a catalog: stage
// one resolves the listing's manufacturer to a catalog key, stage two
// scans that key's candidates for the first whose patterns accept the
// title.
func NewMatchPipeline(products []domain.Product, debug bool) *MatchPipeline {
	index := buildProductIndex(products)
	resolver := NewManufacturerResolver(index.manufacturerKeys())

	return &MatchPipeline{
		stages: []matchStage{
			&manufacturerStage{resolver: resolver},
			&titleStage{index: index},
		},
		index: index,
		debug: debug,
	}
}

// Match runs the pipeline for one listing. An unresolved listing comes
// back with an empty product name, never as an error.
func (p *MatchPipeline) Match(listing domain.Listing) domain.MatchResult {
	state := &matchState{}
	for _, stage := range p.stages {
		value, ok := stage.extract(listing)
		if !ok {
			state = nil
			break
		}
		state = stage.resolve(state, value)
		if state == nil {
			break
		}
	}

	if state == nil || state.product == nil {
		if p.debug {
			log.Printf("[MATCH] no product for listing %s title %q", listing.ID, listing.Title)
		}
		return domain.MatchResult{Listing: listing}
	}

	if p.debug {
		log.Printf("[MATCH] listing %s -> %q", listing.ID, state.product.product.Name)
	}
	return domain.MatchResult{ProductName: state.product.product.Name, Listing: listing}
}

// ProductCount reports the catalog size behind the pipeline.
func (p *MatchPipeline) ProductCount() int {
	return p.index.total
}

// manufacturerStage extracts the listing's manufacturer field, falling
// back to the first word of the title, and resolves it to a catalog key.
type manufacturerStage struct {
	resolver *ManufacturerResolver
}

func (s *manufacturerStage) extract(listing domain.Listing) (string, bool) {
	if listing.Manufacturer != "" {
		return listing.Manufacturer, true
	}
	word := firstWord(listing.Title)
	if word == "" {
		return "", false
	}
	return word, true
}

func (s *manufacturerStage) resolve(prior *matchState, value string) *matchState {
	key, ok := s.resolver.Resolve(value)
	if !ok {
		return nil
	}
	return &matchState{manufacturer: key}
}

// titleStage extracts a normalized prefix of the title and resolves it
// against the manufacturer bucket established by the prior stage.
type titleStage struct {
	index *productIndex
}

var titleSeparatorStrip = strings.NewReplacer("_", "", "-", "")

func (s *titleStage) extract(listing domain.Listing) (string, bool) {
	title := listing.Title
	if title == "" {
		return "", false
	}
	if runes := []rune(title); len(runes) > titleProbeLength {
		title = string(runes[:titleProbeLength])
	}
	return titleSeparatorStrip.Replace(strings.ToLower(title)), true
}

func (s *titleStage) resolve(prior *matchState, fragment string) *matchState {
	for _, candidate := range s.index.candidatesFor(prior.manufacturer) {
		// Model pattern is the cheap prefilter; the full pattern decides.
		if candidate.modelPattern.MatchString(fragment) && candidate.fullPattern.MatchString(fragment) {
			return &matchState{manufacturer: prior.manufacturer, product: candidate}
		}
	}
	return nil
}
