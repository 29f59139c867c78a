package checker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MetricsGuard/internal/config"
	"MetricsGuard/internal/domain"
)

var testClock = func() time.Time {
	return time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
}

func newTestChecker(t *testing.T) *Checker {
	t.Helper()
	c, err := New(config.Defaults(), WithClock(testClock))
	require.NoError(t, err)
	return c
}

func ptr(v float64) *float64 { return &v }

func usage(ym, company string, amount float64) domain.UsageRow {
	return domain.UsageRow{YearMonth: ym, CardCompany: company, UsageAmount: amount}
}

func monthly(ym, company string, amount float64) domain.MonthlyUsageRow {
	return domain.MonthlyUsageRow{YearMonth: ym, CardCompany: company, TotalUsageAmount: amount}
}

func TestCheckSumIntegrity(t *testing.T) {
	t.Run("consistent rows pass per period", func(t *testing.T) {
		c := newTestChecker(t)
		results := c.CheckSumIntegrity([]domain.UsageRow{
			usage("2025-01-01", "Aurora Card", 1000),
			usage("2025-01-01", "Beacon Card", 2000),
			usage("2025-02-01", "Aurora Card", 1100),
		})

		require.Len(t, results, 2)
		for _, r := range results {
			assert.Equal(t, domain.StatusPass, r.Status)
			assert.Equal(t, 0.0, r.Difference)
			assert.Equal(t, domain.SeverityCritical, r.Severity)
			assert.Equal(t, domain.CategorySum, r.CheckCategory)
		}
	})

	t.Run("difference is invariant under reordering and splitting", func(t *testing.T) {
		base := []domain.UsageRow{
			usage("2025-01-01", "Aurora Card", 3000),
			usage("2025-01-01", "Beacon Card", 2000),
		}
		split := []domain.UsageRow{
			usage("2025-01-01", "Beacon Card", 2000),
			usage("2025-01-01", "Aurora Card", 1000),
			usage("2025-01-01", "Aurora Card", 2000),
		}

		a := newTestChecker(t).CheckSumIntegrity(base)
		b := newTestChecker(t).CheckSumIntegrity(split)

		require.Len(t, a, 1)
		require.Len(t, b, 1)
		assert.Equal(t, a[0].Difference, b[0].Difference)
		assert.Equal(t, a[0].Status, b[0].Status)
	})

	t.Run("empty input yields no results", func(t *testing.T) {
		c := newTestChecker(t)
		assert.Empty(t, c.CheckSumIntegrity(nil))
	})
}

func TestCheckMarketShareIntegrity(t *testing.T) {
	t.Run("exact 100 passes", func(t *testing.T) {
		c := newTestChecker(t)
		results := c.CheckMarketShareIntegrity([]domain.ShareRow{
			{YearMonth: "2025-01-01", CardCompany: "Aurora Card", MarketSharePct: 60},
			{YearMonth: "2025-01-01", CardCompany: "Beacon Card", MarketSharePct: 40},
		})

		require.Len(t, results, 1)
		assert.Equal(t, domain.StatusPass, results[0].Status)
		assert.Equal(t, 100.0, results[0].ActualValue)
		assert.Equal(t, 0.0, results[0].Difference)
	})

	t.Run("95 fails with difference 5", func(t *testing.T) {
		c := newTestChecker(t)
		results := c.CheckMarketShareIntegrity([]domain.ShareRow{
			{YearMonth: "2025-01-01", CardCompany: "Aurora Card", MarketSharePct: 55},
			{YearMonth: "2025-01-01", CardCompany: "Beacon Card", MarketSharePct: 40},
		})

		require.Len(t, results, 1)
		assert.Equal(t, domain.StatusFail, results[0].Status)
		assert.Equal(t, 5.0, results[0].Difference)
		assert.Equal(t, domain.SeverityCritical, results[0].Severity)
	})

	t.Run("difference equal to tolerance fails", func(t *testing.T) {
		// the comparison is strictly less-than
		doc := config.Defaults()
		doc["thresholds"].(map[string]any)["ratio_market_share"].(map[string]any)["tolerance"] = 5.0
		c, err := New(doc, WithClock(testClock))
		require.NoError(t, err)

		results := c.CheckMarketShareIntegrity([]domain.ShareRow{
			{YearMonth: "2025-01-01", CardCompany: "Aurora Card", MarketSharePct: 95},
		})

		require.Len(t, results, 1)
		assert.Equal(t, domain.StatusFail, results[0].Status)
	})
}

func TestCheckCategoryRatioIntegrity(t *testing.T) {
	t.Run("groups by period and company", func(t *testing.T) {
		c := newTestChecker(t)
		results := c.CheckCategoryRatioIntegrity([]domain.CategoryRow{
			{YearMonth: "2025-01-01", CardCompany: "Aurora Card", BusinessCategory: "Dining", CategorySharePct: 60},
			{YearMonth: "2025-01-01", CardCompany: "Aurora Card", BusinessCategory: "Travel", CategorySharePct: 40},
			{YearMonth: "2025-01-01", CardCompany: "Beacon Card", BusinessCategory: "Dining", CategorySharePct: 90},
		})

		require.Len(t, results, 2)
		assert.Equal(t, domain.StatusPass, results[0].Status)
		assert.Equal(t, domain.StatusFail, results[1].Status)
		assert.Equal(t, 10.0, results[1].Difference)
		assert.Equal(t, domain.SeverityWarning, results[1].Severity)
		assert.Contains(t, results[1].Detail, "Beacon Card")
	})
}

func TestCheckFormulaMoM(t *testing.T) {
	t.Run("reverse calculation within tolerance passes", func(t *testing.T) {
		c := newTestChecker(t)
		results := c.CheckFormulaMoM([]domain.GrowthRow{{
			YearMonth:       "2025-02-01",
			CardCompany:     "Aurora Card",
			CurrentAmount:   ptr(110),
			PrevMonthAmount: ptr(100),
			MoMGrowthRate:   ptr(10),
		}})

		require.Len(t, results, 1)
		assert.Equal(t, domain.StatusPass, results[0].Status)
		assert.Equal(t, 100.0, results[0].ActualValue)
	})

	t.Run("inconsistent baseline fails", func(t *testing.T) {
		c := newTestChecker(t)
		results := c.CheckFormulaMoM([]domain.GrowthRow{{
			YearMonth:       "2025-02-01",
			CardCompany:     "Aurora Card",
			CurrentAmount:   ptr(110),
			PrevMonthAmount: ptr(80),
			MoMGrowthRate:   ptr(10),
		}})

		require.Len(t, results, 1)
		assert.Equal(t, domain.StatusFail, results[0].Status)
		assert.Equal(t, 20.0, results[0].Difference)
	})

	t.Run("rows without rate or baseline are skipped", func(t *testing.T) {
		c := newTestChecker(t)
		results := c.CheckFormulaMoM([]domain.GrowthRow{
			{YearMonth: "2025-01-01", CardCompany: "Aurora Card", CurrentAmount: ptr(100)},
			{YearMonth: "2025-02-01", CardCompany: "Aurora Card", CurrentAmount: ptr(100), MoMGrowthRate: ptr(5)},
		})
		assert.Empty(t, results)
	})

	t.Run("zero rate is skipped", func(t *testing.T) {
		c := newTestChecker(t)
		results := c.CheckFormulaMoM([]domain.GrowthRow{{
			YearMonth:       "2025-02-01",
			CardCompany:     "Aurora Card",
			CurrentAmount:   ptr(100),
			PrevMonthAmount: ptr(100),
			MoMGrowthRate:   ptr(0),
		}})
		assert.Empty(t, results)
	})
}

func TestCheckFormulaYoY(t *testing.T) {
	c := newTestChecker(t)
	results := c.CheckFormulaYoY([]domain.GrowthRow{{
		YearMonth:      "2025-03-01",
		CardCompany:    "Aurora Card",
		CurrentAmount:  ptr(1200),
		PrevYearAmount: ptr(1000),
		YoYGrowthRate:  ptr(20),
	}})

	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusPass, results[0].Status)
	assert.Equal(t, domain.CategoryFormula, results[0].CheckCategory)
}

func TestCheckRangeActivation(t *testing.T) {
	c := newTestChecker(t)
	results := c.CheckRangeActivation([]domain.ActivationRow{
		{YearMonth: "2025-01-01", CardCompany: "Aurora Card", ActivationRate: 72.5},
		{YearMonth: "2025-01-01", CardCompany: "Beacon Card", ActivationRate: 105},
		{YearMonth: "2025-01-01", CardCompany: "Crestline Card", ActivationRate: -3},
		{YearMonth: "2025-01-01", CardCompany: "Dynasty Card", ActivationRate: 100},
	})

	require.Len(t, results, 4)
	assert.Equal(t, domain.StatusPass, results[0].Status)
	assert.Equal(t, domain.StatusFail, results[1].Status)
	assert.Equal(t, 5.0, results[1].Difference)
	assert.Equal(t, domain.StatusFail, results[2].Status)
	assert.Equal(t, 3.0, results[2].Difference)
	// bounds are inclusive
	assert.Equal(t, domain.StatusPass, results[3].Status)
}

func TestCheckContinuity(t *testing.T) {
	t.Run("consecutive months pass", func(t *testing.T) {
		c := newTestChecker(t)
		results := c.CheckContinuity([]domain.MonthlyUsageRow{
			monthly("2025-01-01", "Aurora Card", 100),
			monthly("2025-02-01", "Aurora Card", 110),
			monthly("2025-03-01", "Aurora Card", 105),
		})

		require.Len(t, results, 1)
		assert.Equal(t, domain.StatusPass, results[0].Status)
		assert.Equal(t, 3.0, results[0].ExpectedValue)
		assert.Equal(t, 3.0, results[0].ActualValue)
	})

	t.Run("gap fails with one missing month", func(t *testing.T) {
		c := newTestChecker(t)
		results := c.CheckContinuity([]domain.MonthlyUsageRow{
			monthly("2025-01-01", "Aurora Card", 100),
			monthly("2025-03-01", "Aurora Card", 105),
		})

		require.Len(t, results, 1)
		assert.Equal(t, domain.StatusFail, results[0].Status)
		assert.Equal(t, 1.0, results[0].Difference)
		assert.Equal(t, domain.SeverityCritical, results[0].Severity)
	})

	t.Run("missing months equal to threshold pass", func(t *testing.T) {
		doc := config.Defaults()
		doc["thresholds"].(map[string]any)["continuity"].(map[string]any)["max_missing_months"] = 1.0
		c, err := New(doc, WithClock(testClock))
		require.NoError(t, err)

		results := c.CheckContinuity([]domain.MonthlyUsageRow{
			monthly("2025-01-01", "Aurora Card", 100),
			monthly("2025-03-01", "Aurora Card", 105),
		})

		require.Len(t, results, 1)
		assert.Equal(t, domain.StatusPass, results[0].Status)
	})

	t.Run("single-month company is skipped", func(t *testing.T) {
		c := newTestChecker(t)
		assert.Empty(t, c.CheckContinuity([]domain.MonthlyUsageRow{
			monthly("2025-01-01", "Aurora Card", 100),
		}))
	})

	t.Run("year boundary counts across years", func(t *testing.T) {
		c := newTestChecker(t)
		results := c.CheckContinuity([]domain.MonthlyUsageRow{
			monthly("2024-12-01", "Aurora Card", 100),
			monthly("2025-01-01", "Aurora Card", 102),
		})

		require.Len(t, results, 1)
		assert.Equal(t, domain.StatusPass, results[0].Status)
		assert.Equal(t, 2.0, results[0].ExpectedValue)
	})
}

func TestCheckStatisticalAnomaly(t *testing.T) {
	t.Run("stable series passes the ratio check", func(t *testing.T) {
		c := newTestChecker(t)
		results := c.CheckStatisticalAnomaly([]domain.MonthlyUsageRow{
			monthly("2025-01-01", "Aurora Card", 100),
			monthly("2025-02-01", "Aurora Card", 102),
			monthly("2025-03-01", "Aurora Card", 101),
			monthly("2025-04-01", "Aurora Card", 103),
		})

		require.NotEmpty(t, results)
		ratio := results[0]
		assert.Equal(t, "Z-score critical outlier ratio", ratio.CheckName)
		assert.Equal(t, domain.StatusPass, ratio.Status)
		assert.Equal(t, 0.0, ratio.ActualValue)
	})

	t.Run("companies below three observations are not classified", func(t *testing.T) {
		c := newTestChecker(t)
		results := c.CheckStatisticalAnomaly([]domain.MonthlyUsageRow{
			monthly("2025-01-01", "Aurora Card", 100),
			monthly("2025-02-01", "Aurora Card", 9999),
		})

		require.Len(t, results, 1)
		assert.Equal(t, domain.StatusPass, results[0].Status)
		assert.Contains(t, results[0].Detail, "critical_count=0")
	})

	t.Run("IQR outliers are reported as INFO findings", func(t *testing.T) {
		c := newTestChecker(t)
		rows := []domain.MonthlyUsageRow{
			monthly("2025-01-01", "Aurora Card", 100),
			monthly("2025-02-01", "Aurora Card", 101),
			monthly("2025-03-01", "Aurora Card", 99),
			monthly("2025-04-01", "Aurora Card", 102),
			monthly("2025-05-01", "Aurora Card", 100),
			monthly("2025-06-01", "Aurora Card", 101),
			monthly("2025-07-01", "Aurora Card", 99),
			monthly("2025-08-01", "Aurora Card", 500),
		}
		results := c.CheckStatisticalAnomaly(rows)

		require.Greater(t, len(results), 1)
		outlier := results[len(results)-1]
		assert.Equal(t, "IQR outlier detection", outlier.CheckName)
		assert.Equal(t, domain.SeverityInfo, outlier.Severity)
		assert.Equal(t, domain.StatusFail, outlier.Status)
		assert.Contains(t, outlier.Detail, "2025-08")
	})
}

func TestCheckTrendBreaks(t *testing.T) {
	t.Run("spike is flagged against the window mean", func(t *testing.T) {
		c := newTestChecker(t)
		vals := []float64{100, 100, 100, 100, 100, 300, 100, 100}
		rows := make([]domain.MonthlyUsageRow, len(vals))
		for i, v := range vals {
			rows[i] = monthly(time.Date(2025, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), "Aurora Card", v)
		}

		results := c.CheckTrendBreaks(rows)

		require.Len(t, results, 1)
		assert.Equal(t, domain.SeverityWarning, results[0].Severity)
		assert.Equal(t, domain.StatusFail, results[0].Status)
		assert.Equal(t, 300.0, results[0].ActualValue)
		assert.Equal(t, 100.0, results[0].ExpectedValue)
		assert.Contains(t, results[0].Detail, "2025-06")
	})

	t.Run("stable series yields no findings", func(t *testing.T) {
		c := newTestChecker(t)
		var rows []domain.MonthlyUsageRow
		for i := 0; i < 8; i++ {
			rows = append(rows, monthly(time.Date(2025, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), "Aurora Card", 100))
		}
		assert.Empty(t, c.CheckTrendBreaks(rows))
	})
}

func TestCheckCrossKPIConsistency(t *testing.T) {
	shares := []domain.ShareRow{
		{YearMonth: "2025-02-01", CardCompany: "Aurora Card", MarketSharePct: 30, ShareChangePP: 1.2},
		{YearMonth: "2025-02-01", CardCompany: "Beacon Card", MarketSharePct: 25, ShareChangePP: 0.8},
	}

	t.Run("share gain with growing revenue passes", func(t *testing.T) {
		c := newTestChecker(t)
		results := c.CheckCrossKPIConsistency(shares, []domain.GrowthRow{
			{YearMonth: "2025-02-01", CardCompany: "Aurora Card", MoMGrowthRate: ptr(4.5)},
		})

		require.Len(t, results, 1)
		assert.Equal(t, domain.StatusPass, results[0].Status)
		assert.Equal(t, 0.0, results[0].ActualValue)
	})

	t.Run("share gain with shrinking revenue is flagged", func(t *testing.T) {
		c := newTestChecker(t)
		results := c.CheckCrossKPIConsistency(shares, []domain.GrowthRow{
			{YearMonth: "2025-02-01", CardCompany: "Beacon Card", MoMGrowthRate: ptr(-5)},
		})

		require.Len(t, results, 1)
		assert.Equal(t, domain.StatusFail, results[0].Status)
		assert.Equal(t, 1.0, results[0].ActualValue)
		assert.Equal(t, domain.SeverityInfo, results[0].Severity)
	})

	t.Run("rows without joins or rates are skipped", func(t *testing.T) {
		c := newTestChecker(t)
		results := c.CheckCrossKPIConsistency(shares, []domain.GrowthRow{
			{YearMonth: "2025-03-01", CardCompany: "Aurora Card", MoMGrowthRate: ptr(-5)},
			{YearMonth: "2025-02-01", CardCompany: "Aurora Card"},
		})
		assert.Empty(t, results)
	})
}

func TestSummarize(t *testing.T) {
	t.Run("counts and status reflect the run", func(t *testing.T) {
		c := newTestChecker(t)
		c.CheckMarketShareIntegrity([]domain.ShareRow{
			{YearMonth: "2025-01-01", CardCompany: "Aurora Card", MarketSharePct: 100},
			{YearMonth: "2025-02-01", CardCompany: "Aurora Card", MarketSharePct: 95},
		})

		summary := c.Summarize()

		assert.Equal(t, 2, summary.TotalChecks)
		assert.Equal(t, 1, summary.Passed)
		assert.Equal(t, 1, summary.Failed)
		assert.Equal(t, 1, summary.CriticalFailures)
		assert.Equal(t, 50.0, summary.OverallPassRate)
		assert.Equal(t, domain.OverallCritical, summary.OverallStatus)
		assert.Equal(t, "2025-06-15", summary.CheckDate)
		require.Len(t, summary.FailedChecks, 1)

		ratio := summary.ByCategory[domain.CategoryRatio]
		assert.Equal(t, 2, ratio.Total)
		assert.Equal(t, 50.0, ratio.PassRate)
	})

	t.Run("warning failures without criticals give WARNING", func(t *testing.T) {
		c := newTestChecker(t)
		c.CheckCategoryRatioIntegrity([]domain.CategoryRow{
			{YearMonth: "2025-01-01", CardCompany: "Aurora Card", BusinessCategory: "Dining", CategorySharePct: 90},
		})

		summary := c.Summarize()
		assert.Equal(t, domain.OverallWarning, summary.OverallStatus)
		assert.Equal(t, 0, summary.CriticalFailures)
	})

	t.Run("empty run is a PASS", func(t *testing.T) {
		c := newTestChecker(t)
		summary := c.Summarize()

		assert.Equal(t, 0, summary.TotalChecks)
		assert.Equal(t, 0.0, summary.OverallPassRate)
		assert.Equal(t, domain.OverallPass, summary.OverallStatus)
	})

	t.Run("summarize is idempotent", func(t *testing.T) {
		c := newTestChecker(t)
		c.CheckMarketShareIntegrity([]domain.ShareRow{
			{YearMonth: "2025-01-01", CardCompany: "Aurora Card", MarketSharePct: 95},
		})

		first := c.Summarize()
		second := c.Summarize()
		assert.Equal(t, first, second)
	})
}

func TestNewChecker(t *testing.T) {
	t.Run("strict mode rejects schema violations", func(t *testing.T) {
		doc := config.Defaults()
		delete(doc["thresholds"].(map[string]any), "sum_integrity")

		_, err := New(doc, Strict())
		require.Error(t, err)

		var vErr *config.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.NotEmpty(t, vErr.Violations)
	})

	t.Run("violations stay inspectable without strict", func(t *testing.T) {
		doc := config.Defaults()
		doc["thresholds"].(map[string]any)["sum_integrity"].(map[string]any)["severity"] = "FATAL"

		c, err := New(doc)
		require.NoError(t, err)
		assert.NotEmpty(t, c.Violations())
	})

	t.Run("valid defaults produce no violations", func(t *testing.T) {
		c := newTestChecker(t)
		assert.Empty(t, c.Violations())
	})
}
