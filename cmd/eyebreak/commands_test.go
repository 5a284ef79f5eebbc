package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyebreak/eyebreak/internal/engine"
	"github.com/eyebreak/eyebreak/internal/overlay"
	"github.com/eyebreak/eyebreak/internal/web"
)

func TestParseSetting(t *testing.T) {
	req, err := parseSetting([]string{"work", "25"})
	require.NoError(t, err)
	require.NotNil(t, req.WorkIntervalMinutes)
	assert.Equal(t, 25.0, *req.WorkIntervalMinutes)
	assert.Nil(t, req.BreakDurationMinutes)

	req, err = parseSetting([]string{"break-range", "1", "10"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, *req.BreakMinMinutes)
	assert.Equal(t, 10.0, *req.BreakMaxMinutes)

	req, err = parseSetting([]string{"allow-exit", "off"})
	require.NoError(t, err)
	require.NotNil(t, req.AllowExitFullscreenDuringBreak)
	assert.False(t, *req.AllowExitFullscreenDuringBreak)
}

func TestParseSettingErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing value", []string{"work"}},
		{"not a number", []string{"work", "soon"}},
		{"range needs two", []string{"work-range", "5"}},
		{"bad flag", []string{"allow-exit", "maybe"}},
		{"unknown key", []string{"color", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSetting(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "[----------]   0%", progressBar(0, 10))
	assert.Equal(t, "[#####-----]  50%", progressBar(0.5, 10))
	assert.Equal(t, "[##########] 100%", progressBar(3, 10))
}

func TestRenderStatus(t *testing.T) {
	st := &web.Status{
		Session:               engine.DefaultSession(),
		StatusText:            "Time to rest your eyes",
		ReminderCountdownText: "Reminding again in 04:59",
		IntervalText:          "20 min",
		BreakText:             "5 min",
		Progress:              1,
		Overlay:               overlay.KindPrompt,
	}
	st.Session.WaitingForRestConfirmation = true

	out := renderStatus(42, st)
	assert.Contains(t, out, "PID: 42")
	assert.Contains(t, out, "Time to rest your eyes")
	assert.Contains(t, out, "Reminding again in 04:59")
	assert.Contains(t, out, "prompt")
	assert.True(t, strings.Contains(out, "eyebreak start"), "stopped timer hint expected")
}

func TestParseOverlayAnswer(t *testing.T) {
	answer, err := parseOverlayAnswer([]string{"Later"})
	require.NoError(t, err)
	assert.Equal(t, "later", answer)

	_, err = parseOverlayAnswer([]string{"dismiss"})
	assert.Error(t, err)
	_, err = parseOverlayAnswer(nil)
	assert.Error(t, err)
}
