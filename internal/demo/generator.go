package demo

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"MetricsGuard/internal/domain"
	"MetricsGuard/internal/ports"
)

var companies = []string{
	"Aurora Card", "Beacon Card", "Crestline Card", "Dynasty Card",
	"Evergreen Card", "Frontier Card", "Granite Card", "Harbor Card",
}

var categories = []string{
	"Dining", "Fuel", "Groceries", "Online Shopping",
	"Transit", "Healthcare", "Education", "Travel",
}

// Per-company monthly base volume.
var baseAmounts = map[string]float64{
	"Aurora Card":    15000,
	"Beacon Card":    13500,
	"Crestline Card": 14000,
	"Dynasty Card":   10000,
	"Evergreen Card": 8000,
	"Frontier Card":  7500,
	"Granite Card":   6500,
	"Harbor Card":    5500,
}

var categoryWeights = []float64{0.22, 0.12, 0.15, 0.18, 0.10, 0.08, 0.07, 0.08}

// Dataset is a deterministic 24-month synthetic row-set across all six KPI
// tables, internally consistent so a validation run over it passes.
type Dataset struct {
	Usage        []domain.UsageRow
	MonthlyUsage []domain.MonthlyUsageRow
	Shares       []domain.ShareRow
	Growth       []domain.GrowthRow
	Activation   []domain.ActivationRow
	Categories   []domain.CategoryRow
}

// Generate builds the dataset with a fixed seed so repeated runs are stable.
func Generate() *Dataset {
	rng := rand.New(rand.NewSource(42))
	ds := &Dataset{}

	for _, year := range []int{2024, 2025} {
		for month := 1; month <= 12; month++ {
			ym := fmt.Sprintf("%d-%02d-01", year, month)
			trend := 1 + float64(year-2024)*0.03 + float64(month)*0.002

			for _, company := range companies {
				noise := rng.Float64()*0.10 - 0.05
				seasonal := 0.03 * math.Sin(2*math.Pi*float64(month)/12)
				amount := math.Round(baseAmounts[company] * trend * (1 + noise + seasonal))

				ds.Usage = append(ds.Usage, domain.UsageRow{
					YearMonth:   ym,
					CardCompany: company,
					UsageAmount: amount,
				})
				ds.MonthlyUsage = append(ds.MonthlyUsage, domain.MonthlyUsageRow{
					YearMonth:        ym,
					CardCompany:      company,
					TotalUsageAmount: amount,
				})
			}
		}
	}

	ds.Shares = buildShares(ds.MonthlyUsage)
	ds.Growth = buildGrowth(ds.MonthlyUsage)
	ds.Activation = buildActivation(rng)
	ds.Categories = buildCategories(rng, ds.MonthlyUsage)

	return ds
}

func buildShares(monthly []domain.MonthlyUsageRow) []domain.ShareRow {
	totals := make(map[string]float64)
	for _, r := range monthly {
		totals[r.YearMonth] += r.TotalUsageAmount
	}

	prev := make(map[string]float64)
	out := make([]domain.ShareRow, 0, len(monthly))
	for _, r := range monthly {
		share := round2(r.TotalUsageAmount / totals[r.YearMonth] * 100)
		last, seen := prev[r.CardCompany]
		if !seen {
			last = share
		}
		out = append(out, domain.ShareRow{
			YearMonth:      r.YearMonth,
			CardCompany:    r.CardCompany,
			MarketSharePct: share,
			ShareChangePP:  round2(share - last),
		})
		prev[r.CardCompany] = share
	}
	return out
}

func buildGrowth(monthly []domain.MonthlyUsageRow) []domain.GrowthRow {
	sorted := make([]domain.MonthlyUsageRow, len(monthly))
	copy(sorted, monthly)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].YearMonth < sorted[j].YearMonth })

	prevMonth := make(map[string]float64)
	history := make(map[string]map[string]float64)
	out := make([]domain.GrowthRow, 0, len(sorted))

	for _, r := range sorted {
		curr := r.TotalUsageAmount
		row := domain.GrowthRow{
			YearMonth:     r.YearMonth,
			CardCompany:   r.CardCompany,
			CurrentAmount: ptr(curr),
		}

		if prev, ok := prevMonth[r.CardCompany]; ok && prev != 0 {
			row.PrevMonthAmount = ptr(prev)
			row.MoMGrowthRate = ptr(round2((curr - prev) / prev * 100))
		}

		var year, month, day int
		if _, err := fmt.Sscanf(r.YearMonth, "%d-%d-%d", &year, &month, &day); err == nil {
			prevYearKey := fmt.Sprintf("%d-%02d-%02d", year-1, month, day)
			if prevYear, ok := history[r.CardCompany][prevYearKey]; ok && prevYear != 0 {
				row.PrevYearAmount = ptr(prevYear)
				row.YoYGrowthRate = ptr(round2((curr - prevYear) / prevYear * 100))
			}
		}

		out = append(out, row)
		prevMonth[r.CardCompany] = curr
		if history[r.CardCompany] == nil {
			history[r.CardCompany] = make(map[string]float64)
		}
		history[r.CardCompany][r.YearMonth] = curr
	}
	return out
}

func buildActivation(rng *rand.Rand) []domain.ActivationRow {
	var out []domain.ActivationRow
	for _, company := range companies {
		base := 62 + rng.Float64()*16
		for _, year := range []int{2024, 2025} {
			for month := 1; month <= 12; month++ {
				rate := round2(base + (rng.Float64()*4 - 2) + float64(year-2024)*1.5)
				rate = math.Max(0, math.Min(100, rate))
				out = append(out, domain.ActivationRow{
					YearMonth:      fmt.Sprintf("%d-%02d-01", year, month),
					CardCompany:    company,
					ActivationRate: rate,
				})
			}
		}
	}
	return out
}

func buildCategories(rng *rand.Rand, monthly []domain.MonthlyUsageRow) []domain.CategoryRow {
	var out []domain.CategoryRow
	for _, r := range monthly {
		remainder := 100.0
		for i, cat := range categories {
			var pct float64
			if i == len(categories)-1 {
				pct = round2(remainder)
			} else {
				pct = round2(categoryWeights[i]*100 + (rng.Float64()*4 - 2))
				remainder -= pct
			}
			out = append(out, domain.CategoryRow{
				YearMonth:        r.YearMonth,
				CardCompany:      r.CardCompany,
				BusinessCategory: cat,
				CategorySharePct: pct,
			})
		}
	}
	return out
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func ptr(v float64) *float64 { return &v }

// Source serves the generated dataset through the row source port. It backs
// runs without a database connection and the pipeline tests.
type Source struct {
	data *Dataset
}

var _ ports.RowSource = (*Source)(nil)

// NewSource generates the dataset once and serves it for every call.
func NewSource() *Source {
	return &Source{data: Generate()}
}

func (s *Source) Usage(ctx context.Context) ([]domain.UsageRow, error) {
	return s.data.Usage, nil
}

func (s *Source) MonthlyUsage(ctx context.Context) ([]domain.MonthlyUsageRow, error) {
	return s.data.MonthlyUsage, nil
}

func (s *Source) MarketShares(ctx context.Context) ([]domain.ShareRow, error) {
	return s.data.Shares, nil
}

func (s *Source) Growth(ctx context.Context) ([]domain.GrowthRow, error) {
	return s.data.Growth, nil
}

func (s *Source) Activation(ctx context.Context) ([]domain.ActivationRow, error) {
	return s.data.Activation, nil
}

func (s *Source) CategoryShares(ctx context.Context) ([]domain.CategoryRow, error) {
	return s.data.Categories, nil
}
