package queue

import (
    "fmt"
    "os"
    "path/filepath"
    "sync"
    "time"
)

// Rendered is one notification shown on the single notification channel.
type Rendered struct {
    Topic string
    Title string
    Body  string
}

// Render returns what a device would display for msg: the notification
// payload first, then the data payload when it carries both a title and a
// message and differs from the notification. A message with neither yields
// nothing.
func Render(msg PushMessage) []Rendered {
    var out []Rendered
    if msg.Notification != nil {
        out = append(out, Rendered{Topic: msg.Topic, Title: msg.Notification.Title, Body: msg.Notification.Body})
    }
    if len(msg.Data) > 0 {
        title, hasTitle := msg.Data["title"]
        body, hasBody := msg.Data["message"]
        if hasTitle && hasBody {
            r := Rendered{Topic: msg.Topic, Title: title, Body: body}
            // Both payloads post to the same channel slot; an identical
            // data entry would only repeat the notification.
            if len(out) == 0 || out[0] != r {
                out = append(out, r)
            }
        }
    }
    return out
}

// Sink receives rendered notifications.
type Sink interface {
    Show(r Rendered) error
}

// FileSink appends one line per notification to <dir>/notifications.log.
type FileSink struct {
    mu   sync.Mutex
    path string
    now  func() time.Time
}

func NewFileSink(dir string) *FileSink {
    if dir == "" {
        dir = "logs"
    }
    return &FileSink{path: filepath.Join(dir, "notifications.log"), now: time.Now}
}

func (s *FileSink) Path() string { return s.path }

func (s *FileSink) Show(r Rendered) error {
    s.mu.Lock()
    defer s.mu.Unlock()

    if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    line := fmt.Sprintf("[%s] Yoga Studio Notifications | topic=%s | title=%q | body=%q\n",
        s.now().UTC().Format(time.RFC3339), r.Topic, r.Title, r.Body)
    if _, err := f.WriteString(line); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}
