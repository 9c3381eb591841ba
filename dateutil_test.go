package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddBusinessDays_SkipsWeekends(t *testing.T) {
	fri := date(2025, time.January, 17) // Friday
	assert.Equal(t, date(2025, time.January, 20), AddBusinessDays(fri, 1, DefaultCalendar))
	assert.Equal(t, date(2025, time.January, 21), AddBusinessDays(fri, 2, DefaultCalendar))
}

func TestAddBusinessDays_ZeroIsIdentityEvenOnWeekend(t *testing.T) {
	sat := date(2025, time.January, 18) // Saturday
	assert.True(t, sat.Equal(AddBusinessDays(sat, 0, DefaultCalendar)))
}

func TestSubBusinessDays_SkipsWeekends(t *testing.T) {
	mon := date(2025, time.January, 20) // Monday
	assert.Equal(t, date(2025, time.January, 17), SubBusinessDays(mon, 1, DefaultCalendar))
	assert.Equal(t, date(2025, time.January, 16), SubBusinessDays(mon, 2, DefaultCalendar))
}

func TestFormatISO(t *testing.T) {
	assert.Equal(t, "2025-01-17", FormatISO(date(2025, time.January, 17)))
}

func TestWeekdayCalendar(t *testing.T) {
	assert.True(t, DefaultCalendar.IsBusinessDay(date(2025, time.January, 17)))  // Friday
	assert.False(t, DefaultCalendar.IsBusinessDay(date(2025, time.January, 18))) // Saturday
	assert.False(t, DefaultCalendar.IsBusinessDay(date(2025, time.January, 19))) // Sunday
	assert.True(t, DefaultCalendar.IsBusinessDay(date(2025, time.January, 20)))  // Monday
}
