package tasks

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

func TestRunnerRunsJobsAndStops(t *testing.T) {
	var mu sync.Mutex
	runs := 0

	r := NewRunner(zap.NewNop(), Job{
		Name:     "counter",
		Interval: 10 * time.Millisecond,
		Run: func(ctx context.Context) error {
			mu.Lock()
			runs++
			mu.Unlock()
			return nil
		},
	})

	r.Start()
	time.Sleep(60 * time.Millisecond)
	r.Stop()

	mu.Lock()
	got := runs
	mu.Unlock()
	if got < 2 {
		t.Errorf("runs: got %d, want at least 2", got)
	}

	time.Sleep(30 * time.Millisecond)
	mu.Lock()
	after := runs
	mu.Unlock()
	if after != got {
		t.Errorf("job ran after Stop: %d -> %d", got, after)
	}
}

func TestRunnerSurvivesJobErrors(t *testing.T) {
	var mu sync.Mutex
	runs := 0

	r := NewRunner(zap.NewNop(), Job{
		Name:     "flaky",
		Interval: 10 * time.Millisecond,
		Run: func(ctx context.Context) error {
			mu.Lock()
			runs++
			mu.Unlock()
			return errors.New("boom")
		},
	})

	r.Start()
	time.Sleep(50 * time.Millisecond)
	r.Stop()

	mu.Lock()
	defer mu.Unlock()
	if runs < 2 {
		t.Errorf("a failing job should keep its schedule, got %d runs", runs)
	}
}

type fakeChannelLister struct {
	channels []slack.Channel
	listErr  error

	mu     sync.Mutex
	posted []string
	target string
}

func (f *fakeChannelLister) ListPublicChannels() ([]slack.Channel, error) {
	return f.channels, f.listErr
}

func (f *fakeChannelLister) SendToChannel(message, channel string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posted = append(f.posted, message)
	f.target = channel
	return nil
}

func namedChannel(id, name string) slack.Channel {
	var ch slack.Channel
	ch.ID = id
	ch.Name = name
	return ch
}

func TestChannelPromoterPostsAPick(t *testing.T) {
	bot := &fakeChannelLister{channels: []slack.Channel{
		namedChannel("C1", "general"),
		namedChannel("C2", "random"),
	}}
	job := ChannelPromoterJob(bot, "#announcements", zap.NewNop())

	if job.Interval != 7*24*time.Hour {
		t.Errorf("interval: got %s, want one week", job.Interval)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(bot.posted) != 1 {
		t.Fatalf("posted: got %d messages", len(bot.posted))
	}
	if bot.target != "#announcements" {
		t.Errorf("target channel: got %q", bot.target)
	}
	msg := bot.posted[0]
	if !strings.HasPrefix(msg, "Featured channel of the week: ") {
		t.Errorf("message: got %q", msg)
	}
	if !strings.Contains(msg, "<#C1|general>") && !strings.Contains(msg, "<#C2|random>") {
		t.Errorf("message should reference a real channel: %q", msg)
	}
}

func TestChannelPromoterNoChannelsIsANoOp(t *testing.T) {
	bot := &fakeChannelLister{}
	job := ChannelPromoterJob(bot, "#announcements", zap.NewNop())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(bot.posted) != 0 {
		t.Errorf("nothing should be posted, got %+v", bot.posted)
	}
}

func TestChannelPromoterListFailure(t *testing.T) {
	bot := &fakeChannelLister{listErr: errors.New("slack down")}
	job := ChannelPromoterJob(bot, "#announcements", zap.NewNop())

	if err := job.Run(context.Background()); err == nil {
		t.Error("list failure should surface as an error")
	}
}
