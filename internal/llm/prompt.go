package llm

import (
	"strconv"
	"strings"

	"github.com/sandeepkv93/sched/internal/planner"
)

const systemPrompt = `You are a daily planning assistant.

You MUST:
produce a realistic schedule for a single day,
respect the wake-up time and the sleep time,
fit the requested number of productive hours,
keep every recurring event at its stated time.

Output plain text, one line per block, formatted as "HH:MM - HH:MM Activity".
Do not add commentary before or after the schedule.
`

// BuildPrompt renders the questionnaire answers as labelled lines. Optional
// fields are left out when empty.
func BuildPrompt(req planner.GenerateRequest) string {
	var b strings.Builder

	b.WriteString(systemPrompt)
	b.WriteString("\n")

	b.WriteString("works: ")
	b.WriteString(string(req.Work))
	b.WriteString("\n")

	b.WriteString("attends_school: ")
	b.WriteString(string(req.School))
	b.WriteString("\n")

	b.WriteString("wake_up_time: ")
	b.WriteString(req.StartTime)
	b.WriteString("\n")

	b.WriteString("sleep_time: ")
	b.WriteString(req.SleepTime)
	b.WriteString("\n")

	b.WriteString("productive_hours: ")
	b.WriteString(strconv.Itoa(req.HoursPerDay))
	b.WriteString("\n")

	if c := strings.TrimSpace(req.Commitments); c != "" {
		b.WriteString("optional_commitments: ")
		b.WriteString(c)
		b.WriteString("\n")
	}

	if len(req.RecurringEvents) > 0 {
		b.WriteString("recurring_events:\n")
		for _, ev := range req.RecurringEvents {
			b.WriteString("- ")
			b.WriteString(ev.Description)
			if s := strings.TrimSpace(ev.Schedule); s != "" {
				b.WriteString(" @ ")
				b.WriteString(s)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}
