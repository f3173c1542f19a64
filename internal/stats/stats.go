// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/fretdrill/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes correct answers per minute and accuracy for a session.
func SessionMetrics(correct, errors int, durationMs int64) (perMinute, accuracy float64) {
	den := float64(correct + errors)
	if den > 0 {
		accuracy = float64(correct) / den
	}
	if durationMs <= 0 {
		return 0, accuracy
	}
	minutes := float64(durationMs) / 60000.0
	perMinute = float64(correct) / minutes
	return perMinute, accuracy
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := bounds(values)
	if math.Abs(hi-lo) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if len(values) == 0 {
		return 0, 0
	}
	return lo, hi
}

// RenderSummary prints totals per mode and overall.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	type totals struct {
		sessions  int
		score     int
		best      int
		perMinute float64
		accuracy  float64
		duration  int64
	}
	byMode := map[string]*totals{}
	for _, s := range sessions {
		t, ok := byMode[s.Mode]
		if !ok {
			t = &totals{}
			byMode[s.Mode] = t
		}
		pm, acc := SessionMetrics(s.Correct, s.Errors, s.DurationMs)
		t.sessions++
		t.score += s.Score
		t.best = max(t.best, s.Score)
		t.perMinute += pm
		t.accuracy += acc
		t.duration += s.DurationMs
	}
	modes := make([]string, 0, len(byMode))
	for m := range byMode {
		modes = append(modes, m)
	}
	sort.Strings(modes)

	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Sessions: %d\n\n", len(sessions)); err != nil {
		return err
	}
	headers := []string{"Mode", "Sessions", "Avg Score", "Best", "Correct/min", "Accuracy", "Time"}
	rows := make([][]string, 0, len(modes))
	for _, m := range modes {
		t := byMode[m]
		n := float64(t.sessions)
		rows = append(rows, []string{
			m,
			fmt.Sprintf("%d", t.sessions),
			fmt.Sprintf("%.1f", float64(t.score)/n),
			fmt.Sprintf("%d", t.best),
			fmt.Sprintf("%.1f", t.perMinute/n),
			fmt.Sprintf("%.1f%%", t.accuracy/n*100),
			formatDuration(t.duration),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func formatDuration(ms int64) string {
	secs := ms / 1000
	return fmt.Sprintf("%dm%02ds", secs/60, secs%60)
}

// RenderCurves prints the score and accuracy learning curves.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window, totalWidth, height int) error {
	if len(sessions) == 0 {
		return nil
	}
	scores := make([]float64, len(sessions))
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		_, acc := SessionMetrics(s.Correct, s.Errors, s.DurationMs)
		scores[i] = float64(s.Score)
		accs[i] = acc * 100
	}
	if _, err := fmt.Fprintf(w, "Learning Curves (moving average, window %d)\n", window); err != nil {
		return err
	}
	return RenderChart(w, []Series{
		{Name: "Score", Values: MovingAverage(scores, window)},
		{Name: "Accuracy %", Values: MovingAverage(accs, window)},
	}, totalWidth, height)
}
