package maintenance

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// Recurrence calcula la siguiente fecha de un plan preventivo.
type Recurrence struct {
	Frequency string
	Interval  int
	// AnchorDay es el día del mes de las frecuencias mensuales en adelante. Con 0 se
	// usa el día de la fecha base.
	AnchorDay int
	schedule  cron.Schedule
}

// cronParser acepta expresiones estándar de 5 campos y descriptores (@daily, @weekly...).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseRecurrence valida la frecuencia del plan. interval < 1 se toma como 1.
func ParseRecurrence(frequency string, interval int, cronExpr string) (Recurrence, error) {
	if interval < 1 {
		interval = 1
	}
	r := Recurrence{Frequency: frequency, Interval: interval}
	switch frequency {
	case entity.FrequencyDaily, entity.FrequencyWeekly, entity.FrequencyMonthly,
		entity.FrequencyQuarterly, entity.FrequencySemiannual, entity.FrequencyAnnual:
		return r, nil
	case entity.FrequencyCron:
		if cronExpr == "" {
			return Recurrence{}, domain.InvalidInput("expresión cron requerida", map[string]string{"cron_expr": "required"})
		}
		s, err := cronParser.Parse(cronExpr)
		if err != nil {
			return Recurrence{}, domain.InvalidInput("expresión cron inválida", map[string]string{"cron_expr": err.Error()})
		}
		r.schedule = s
		return r, nil
	}
	return Recurrence{}, domain.InvalidInput(fmt.Sprintf("frecuencia desconocida: %s", frequency), nil)
}

// RecurrenceOf construye la recurrencia de un plan guardado, anclada al día de StartAt
// (o de NextDueAt si el plan no tiene inicio) para que el recorte de fin de mes no se
// arrastre: 31-ene, 28-feb, 31-mar.
func RecurrenceOf(p *entity.PMPlan) (Recurrence, error) {
	r, err := ParseRecurrence(p.Frequency, p.Interval, p.CronExpr)
	if err != nil {
		return Recurrence{}, err
	}
	anchor := p.StartAt
	if anchor.IsZero() {
		anchor = p.NextDueAt
	}
	if !anchor.IsZero() {
		r.AnchorDay = anchor.Day()
	}
	return r, nil
}

// Next devuelve la primera fecha estrictamente posterior a from.
func (r Recurrence) Next(from time.Time) time.Time {
	switch r.Frequency {
	case entity.FrequencyDaily:
		return from.AddDate(0, 0, r.Interval)
	case entity.FrequencyWeekly:
		return from.AddDate(0, 0, 7*r.Interval)
	case entity.FrequencyMonthly:
		return r.addMonths(from, r.Interval)
	case entity.FrequencyQuarterly:
		return r.addMonths(from, 3*r.Interval)
	case entity.FrequencySemiannual:
		return r.addMonths(from, 6*r.Interval)
	case entity.FrequencyAnnual:
		return r.addMonths(from, 12*r.Interval)
	case entity.FrequencyCron:
		if r.schedule != nil {
			return r.schedule.Next(from)
		}
	}
	return time.Time{}
}

// NextAfter avanza desde due hasta la primera fecha posterior a now. Evita generar
// una OT por cada periodo perdido cuando el programador estuvo detenido.
func (r Recurrence) NextAfter(due, now time.Time) time.Time {
	next := r.Next(due)
	for !next.IsZero() && !next.After(now) {
		next = r.Next(next)
	}
	return next
}

func (r Recurrence) addMonths(t time.Time, months int) time.Time {
	if r.AnchorDay > 0 {
		return addMonthsOnDay(t, months, r.AnchorDay)
	}
	return AddMonths(t, months)
}

// AddMonths suma meses recortando al último día del mes destino:
// 31-ene + 1 mes = 28/29-feb.
func AddMonths(t time.Time, months int) time.Time {
	return addMonthsOnDay(t, months, t.Day())
}

// addMonthsOnDay suma meses y ubica el resultado en day, recortado al último día del
// mes destino.
func addMonthsOnDay(t time.Time, months, day int) time.Time {
	y, m, _ := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

// Due informa si el plan debe generar OT a la fecha dada (considerando LeadDays).
func Due(p *entity.PMPlan, now time.Time) bool {
	if !p.IsActive || p.NextDueAt.IsZero() {
		return false
	}
	return !p.NextDueAt.AddDate(0, 0, -p.LeadDays).After(now)
}
