package stats

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aquarosarium/HandOfMidas-bot/internal/storages"
)

// PeriodKind период статистики
type PeriodKind string

const (
	PeriodDay   PeriodKind = "day"
	PeriodWeek  PeriodKind = "week"
	PeriodMonth PeriodKind = "month"
)

// Period закрытый интервал дат с подписью и иконкой для отчета
type Period struct {
	Kind  PeriodKind
	Start time.Time
	End   time.Time
	Name  string
	Icon  string
}

// PeriodFor возвращает границы периода относительно заданного дня.
// Интервалы закрытые по обоим концам и считаются по датам, не по времени:
// день — [сегодня, сегодня], неделя — [сегодня-7, сегодня],
// месяц — [первое число, сегодня].
func PeriodFor(kind PeriodKind, now time.Time) Period {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch kind {
	case PeriodWeek:
		start := today.AddDate(0, 0, -7)
		return Period{
			Kind:  PeriodWeek,
			Start: start,
			End:   today,
			Name:  fmt.Sprintf("неделю (%s - %s)", start.Format("2006-01-02"), today.Format("2006-01-02")),
			Icon:  "📆",
		}
	case PeriodMonth:
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return Period{
			Kind:  PeriodMonth,
			Start: start,
			End:   today,
			Name:  fmt.Sprintf("текущий месяц (%s - %s)", start.Format("2006-01-02"), today.Format("2006-01-02")),
			Icon:  "📈",
		}
	default:
		return Period{
			Kind:  PeriodDay,
			Start: today,
			End:   today,
			Name:  fmt.Sprintf("сегодня (%s)", today.Format("2006-01-02")),
			Icon:  "📅",
		}
	}
}

// CategoryTotal сумма операций одной категории
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// Report агрегированная статистика за период
type Report struct {
	IncomeByCategory   []CategoryTotal
	ExpensesByCategory []CategoryTotal
	TotalIncome        decimal.Decimal
	TotalExpenses      decimal.Decimal
	Net                decimal.Decimal
}

// Aggregate раскладывает операции на доходы и расходы по сохранённому типу
// (тип зафиксирован при записи, по списку категорий ничего не перевыводится)
// и суммирует их по категориям. Порядок категорий — порядок первого появления.
func Aggregate(transactions []storages.Transaction) Report {
	report := Report{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
	}

	incomeIdx := make(map[string]int)
	expenseIdx := make(map[string]int)

	for _, t := range transactions {
		if t.Kind == storages.KindIncome {
			report.TotalIncome = report.TotalIncome.Add(t.Amount)
			report.IncomeByCategory = accumulate(report.IncomeByCategory, incomeIdx, t)
		} else {
			report.TotalExpenses = report.TotalExpenses.Add(t.Amount)
			report.ExpensesByCategory = accumulate(report.ExpensesByCategory, expenseIdx, t)
		}
	}

	report.Net = report.TotalIncome.Sub(report.TotalExpenses)
	return report
}

func accumulate(totals []CategoryTotal, index map[string]int, t storages.Transaction) []CategoryTotal {
	if i, ok := index[t.Category]; ok {
		totals[i].Total = totals[i].Total.Add(t.Amount)
		return totals
	}
	index[t.Category] = len(totals)
	return append(totals, CategoryTotal{Category: t.Category, Total: t.Amount})
}
