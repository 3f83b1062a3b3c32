package routing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lifeos-app/echo/internal/app/routing"
	"github.com/lifeos-app/echo/internal/domain"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		name     string
		message  string
		agent    domain.AgentName
		forward  string
	}{
		{"no mention goes to mail", "show my emails", domain.AgentMail, "show my emails"},
		{"mail mention stripped", "@mail show my emails", domain.AgentMail, "show my emails"},
		{"cal mention", "@cal show my calendar", domain.AgentCalendar, "show my calendar"},
		{"mem mention", "@mem what did I save?", domain.AgentMemory, "what did I save?"},
		{"bare mention", "@cal", domain.AgentCalendar, ""},
		{"unknown mention is plain text", "@fake do something", domain.AgentMail, "@fake do something"},
		{"case sensitive", "@Mail hello", domain.AgentMail, "@Mail hello"},
		{"mention mid-sentence ignored", "email @mail please", domain.AgentMail, "email @mail please"},
		{"leading whitespace", "  @mail  hi  ", domain.AgentMail, "hi"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			agent, forward := routing.Resolve(tc.message)
			assert.Equal(t, tc.agent, agent)
			assert.Equal(t, tc.forward, forward)
		})
	}
}
