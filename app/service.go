package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"statviz/domain/core"
	"statviz/domain/dataset"
	"statviz/domain/stats"
	"statviz/models"
	"statviz/ports"
)

// Entry point names accepted by AnalysisService.Run.
const (
	EntryBetween        = "between"
	EntryScatter        = "scatter"
	EntryPie            = "pie"
	EntryBar            = "bar"
	EntryCorrMat        = "corrmat"
	EntryCoef           = "coef"
	EntryHist           = "hist"
	EntryGroupedBetween = "grouped_between"
	EntryGroupedScatter = "grouped_scatter"
	EntryGroupedPie     = "grouped_pie"
)

// AnalysisRequest selects an entry point and its columns. Which fields are
// required depends on the entry point: between/scatter/bar need X and Y,
// pie and hist need X, corrmat needs Keys, coef needs Response and
// Predictors, grouped variants additionally need Group.
type AnalysisRequest struct {
	EntryPoint string         `json:"entry_point"`
	X          string         `json:"x,omitempty"`
	Y          string         `json:"y,omitempty"`
	Group      string         `json:"group,omitempty"`
	Keys       []string       `json:"keys,omitempty"`
	Response   string         `json:"response,omitempty"`
	Predictors []string       `json:"predictors,omitempty"`
	TestValue  float64        `json:"test_value,omitempty"`
	Expected   []float64      `json:"expected,omitempty"`
	Options    *stats.Options `json:"options,omitempty"`
}

// RunOutcome bundles the result of a run with its stored record ID.
type RunOutcome struct {
	RecordID uuid.UUID       `json:"record_id"`
	Result   *AnalysisResult `json:"result,omitempty"`
	Grouped  *GroupedResult  `json:"grouped,omitempty"`
	Subtitle string          `json:"subtitle"`
}

// AnalysisService runs entry points over tables and persists the outcomes.
type AnalysisService struct {
	repo ports.AnalysisRepository
}

// NewAnalysisService creates the analysis service.
func NewAnalysisService(repo ports.AnalysisRepository) *AnalysisService {
	return &AnalysisService{repo: repo}
}

// Run dispatches the requested entry point over the table, stores the
// serialized outcome, and returns it.
func (s *AnalysisService) Run(ctx context.Context, t *dataset.Table, req AnalysisRequest) (*RunOutcome, error) {
	opts := stats.DefaultOptions()
	if req.Options != nil {
		opts = *req.Options
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	outcome, err := s.dispatch(ctx, t, req, opts)
	if err != nil {
		return nil, err
	}

	record := models.NewAnalysisRecord(t.Name, req.EntryPoint)
	record.Subtitle = outcome.Subtitle
	if outcomeSkipped(outcome) {
		record.Status = models.AnalysisStatusSkipped
	}
	if record.Options, err = json.Marshal(req); err != nil {
		return nil, fmt.Errorf("serialize options: %w", err)
	}
	if record.Result, err = json.Marshal(outcome); err != nil {
		return nil, fmt.Errorf("serialize result: %w", err)
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("store analysis: %w", err)
	}
	outcome.RecordID = record.ID

	return outcome, nil
}

func (s *AnalysisService) dispatch(ctx context.Context, t *dataset.Table, req AnalysisRequest, opts stats.Options) (*RunOutcome, error) {
	x := core.VariableKey(req.X)
	y := core.VariableKey(req.Y)
	group := core.VariableKey(req.Group)

	switch req.EntryPoint {
	case EntryBetween:
		res, err := BetweenStats(t, x, y, opts)
		return singleOutcome(res, err)
	case EntryScatter:
		res, err := ScatterStats(t, x, y, opts)
		return singleOutcome(res, err)
	case EntryPie:
		res, err := PieStats(t, x, req.Expected, opts)
		return singleOutcome(res, err)
	case EntryBar:
		res, err := BarStats(t, x, y, opts)
		return singleOutcome(res, err)
	case EntryCorrMat:
		keys := make([]core.VariableKey, len(req.Keys))
		for i, k := range req.Keys {
			keys[i] = core.VariableKey(k)
		}
		res, err := CorrMat(t, keys, opts)
		return singleOutcome(res, err)
	case EntryCoef:
		predictors := make([]core.VariableKey, len(req.Predictors))
		for i, k := range req.Predictors {
			predictors[i] = core.VariableKey(k)
		}
		res, err := CoefStats(t, core.VariableKey(req.Response), predictors, opts)
		return singleOutcome(res, err)
	case EntryHist:
		res, err := HistStats(t, x, req.TestValue, opts)
		return singleOutcome(res, err)
	case EntryGroupedBetween:
		grouped, err := GroupedBetweenStats(ctx, t, group, x, y, opts)
		return groupedOutcome(grouped, err)
	case EntryGroupedScatter:
		grouped, err := GroupedScatterStats(ctx, t, group, x, y, opts)
		return groupedOutcome(grouped, err)
	case EntryGroupedPie:
		grouped, err := GroupedPieStats(ctx, t, group, x, opts)
		return groupedOutcome(grouped, err)
	default:
		return nil, fmt.Errorf("unknown entry point %q", req.EntryPoint)
	}
}

// Get returns a stored analysis record.
func (s *AnalysisService) Get(ctx context.Context, id uuid.UUID) (*models.AnalysisRecord, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns stored records, newest first.
func (s *AnalysisService) List(ctx context.Context, limit, offset int) ([]*models.AnalysisRecord, error) {
	return s.repo.List(ctx, limit, offset)
}

// Delete removes a stored record.
func (s *AnalysisService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// outcomeSkipped reports whether no test was actually run: a degraded
// single result, or a grouped run where every level degraded.
func outcomeSkipped(out *RunOutcome) bool {
	if out.Result != nil {
		return out.Result.Result != nil && out.Result.Result.Test == stats.TestNone
	}
	if out.Grouped == nil || len(out.Grouped.ByLevel) == 0 {
		return false
	}
	for _, res := range out.Grouped.ByLevel {
		if res.Result == nil || res.Result.Test != stats.TestNone {
			return false
		}
	}
	return true
}

func singleOutcome(res *AnalysisResult, err error) (*RunOutcome, error) {
	if err != nil {
		return nil, err
	}
	out := &RunOutcome{Result: res}
	if res.Plot != nil {
		out.Subtitle = res.Plot.Subtitle
	}
	return out, nil
}

func groupedOutcome(grouped *GroupedResult, err error) (*RunOutcome, error) {
	if err != nil {
		return nil, err
	}
	out := &RunOutcome{Grouped: grouped}
	if grouped.Grid != nil {
		out.Subtitle = grouped.Grid.Subtitle
	}
	return out, nil
}
