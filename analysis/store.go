package analysis

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"stocklens/config"
	"stocklens/models"
)

// Slot selects the time window a fact batch belongs to within a period type.
type Slot string

const (
	SlotCurrent  Slot = "current"
	SlotPrevious Slot = "previous"
)

var (
	// ErrNoMaster means reconciliation was requested before any product
	// master was loaded.
	ErrNoMaster = errors.New("no product master loaded")
	// ErrNoPeriodData means the requested period type has no facts yet.
	ErrNoPeriodData = errors.New("no data for period")
)

// periodData is one period type's private state: brand-keyed fact
// collections for both slots, channel batches, and the merge results.
type periodData struct {
	facts     map[string]*models.FactBatch
	prevFacts map[string]*models.FactBatch
	channels  map[string]*models.ChannelBatch

	merged     *Result
	prevMerged *Result
}

func newPeriodData() *periodData {
	return &periodData{
		facts:     make(map[string]*models.FactBatch),
		prevFacts: make(map[string]*models.FactBatch),
		channels:  make(map[string]*models.ChannelBatch),
	}
}

// activeData is the single displayed dataset: a copy of one period
// type's collections taken at switch time.
type activeData struct {
	periodType string
	facts      map[string]*models.FactBatch
	channels   map[string]*models.ChannelBatch
	merged     *Result
	prevMerged *Result
}

// Store owns the product master, the per-period-type fact collections
// and merge results, and the active (displayed) dataset. One writer at
// a time; reads hand out the last published snapshot.
type Store struct {
	mu sync.RWMutex

	master  []models.ProductRecord
	periods map[string]*periodData
	active  *activeData
}

// NewStore builds an empty store tracking the configured period types.
func NewStore() *Store {
	periods := make(map[string]*periodData, len(config.PeriodTypes))
	for _, pt := range config.PeriodTypes {
		periods[pt] = newPeriodData()
	}
	return &Store{periods: periods}
}

// SetProductMaster fully replaces the product master.
func (s *Store) SetProductMaster(records []models.ProductRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.master = records
}

// HasProductMaster reports whether any master rows are loaded.
func (s *Store) HasProductMaster() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.master) > 0
}

// ProductCount returns the number of loaded master rows.
func (s *Store) ProductCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.master)
}

// SetFacts replaces the facts for the exact (periodType, brand, slot)
// triple. Nothing is merged with the batch previously stored there.
func (s *Store) SetFacts(periodType, brand string, slot Slot, batch *models.FactBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pd, ok := s.periods[periodType]
	if !ok {
		return fmt.Errorf("unknown period type %q", periodType)
	}
	if slot == SlotPrevious {
		pd.prevFacts[brand] = batch
	} else {
		pd.facts[brand] = batch
	}
	return nil
}

// SetChannelData replaces one brand's channel batch for a period type.
func (s *Store) SetChannelData(periodType, brand string, batch *models.ChannelBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pd, ok := s.periods[periodType]
	if !ok {
		return fmt.Errorf("unknown period type %q", periodType)
	}
	pd.channels[brand] = batch
	return nil
}

// Reconcile re-runs the merge/analyze pipeline for one period type and
// stores the result as that period type's current merged set. A missing
// master or empty current slot yields (nil, nil): an expected empty
// state, not an error.
func (s *Store) Reconcile(periodType string) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pd, ok := s.periods[periodType]
	if !ok {
		return nil, fmt.Errorf("unknown period type %q", periodType)
	}
	if len(s.master) == 0 {
		return nil, nil
	}

	res := reconcile(s.master, pd.facts, pd.prevFacts)
	if res == nil {
		return nil, nil
	}
	pd.merged = res
	pd.prevMerged = reconcile(s.master, pd.prevFacts, nil)

	// Keep the displayed dataset in step when it points at this period.
	if s.active != nil && s.active.periodType == periodType {
		s.publishActiveLocked(periodType, pd)
	}
	return res, nil
}

// SwitchActive copies one period type's collections into the displayed
// slot. A pure copy: reconciliation is never re-run here.
func (s *Store) SwitchActive(periodType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pd, ok := s.periods[periodType]
	if !ok {
		return fmt.Errorf("unknown period type %q", periodType)
	}
	if !hasAnyFacts(pd.facts) {
		return ErrNoPeriodData
	}
	s.publishActiveLocked(periodType, pd)
	return nil
}

func (s *Store) publishActiveLocked(periodType string, pd *periodData) {
	facts := make(map[string]*models.FactBatch, len(pd.facts))
	for b, batch := range pd.facts {
		facts[b] = batch
	}
	channels := make(map[string]*models.ChannelBatch, len(pd.channels))
	for b, batch := range pd.channels {
		channels[b] = batch
	}
	s.active = &activeData{
		periodType: periodType,
		facts:      facts,
		channels:   channels,
		merged:     pd.merged,
		prevMerged: pd.prevMerged,
	}
}

func hasAnyFacts(facts map[string]*models.FactBatch) bool {
	for _, batch := range facts {
		if batch != nil && len(batch.Records) > 0 {
			return true
		}
	}
	return false
}

// ActivePeriodType names the period type currently displayed, or "".
func (s *Store) ActivePeriodType() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return ""
	}
	return s.active.periodType
}

// ActiveResult returns the displayed merged set, nil when nothing has
// been reconciled and switched in yet.
func (s *Store) ActiveResult() *Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return nil
	}
	return s.active.merged
}

// Result returns one period type's merged set without touching the
// active slot.
func (s *Store) Result(periodType string) *Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pd, ok := s.periods[periodType]
	if !ok {
		return nil
	}
	return pd.merged
}

// ActiveChannelData returns the displayed channel batch for one brand.
func (s *Store) ActiveChannelData(brand string) *models.ChannelBatch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return nil
	}
	return s.active.channels[brand]
}

// AvailablePeriods lists the period types that have at least one
// brand's current-slot facts loaded.
func (s *Store) AvailablePeriods() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	available := make([]string, 0, len(config.PeriodTypes))
	for _, pt := range config.PeriodTypes {
		if pd, ok := s.periods[pt]; ok && hasAnyFacts(pd.facts) {
			available = append(available, pt)
		}
	}
	return available
}

// AnalysisPeriod aggregates the displayed brands' windows into the
// overall analysis period: min start, max end, total span.
func (s *Store) AnalysisPeriod() *models.AnalysisPeriod {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil || !hasAnyFacts(s.active.facts) {
		return nil
	}

	overall := &models.AnalysisPeriod{}
	for _, brand := range brandOrder(s.active.facts) {
		batch := s.active.facts[brand]
		if batch == nil {
			continue
		}
		overall.Brands = append(overall.Brands, models.BrandPeriod{
			Brand:            brand,
			PeriodDescriptor: batch.Period,
		})
		if start := batch.Period.StartDate; start != nil {
			if overall.MinStart == nil || start.Before(*overall.MinStart) {
				overall.MinStart = start
			}
		}
		if end := batch.Period.EndDate; end != nil {
			if overall.MaxEnd == nil || end.After(*overall.MaxEnd) {
				overall.MaxEnd = end
			}
		}
	}
	if len(overall.Brands) == 0 {
		return nil
	}
	if overall.MinStart != nil && overall.MaxEnd != nil {
		overall.TotalDays = int(overall.MaxEnd.Sub(*overall.MinStart).Hours()/24) + 1
	}
	return overall
}

// brandOrder walks the configured brand list first, then any stragglers
// in sorted order, so aggregation output is stable.
func brandOrder(facts map[string]*models.FactBatch) []string {
	order := make([]string, 0, len(facts))
	seen := make(map[string]bool, len(facts))
	for _, b := range config.Brands {
		if _, ok := facts[b]; ok {
			order = append(order, b)
			seen[b] = true
		}
	}
	extras := make([]string, 0)
	for b := range facts {
		if !seen[b] {
			extras = append(extras, b)
		}
	}
	sort.Strings(extras)
	return append(order, extras...)
}
