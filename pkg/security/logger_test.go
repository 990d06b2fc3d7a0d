package security

import (
	"errors"
	"strings"
	"testing"
	"time"

	"git.srvlab.io/whiskey/smb-mounter/pkg/utils"
)

// captureLogger returns a logger that records lines instead of logging them
func captureLogger() (*Logger, *[]string, *[]EventSeverity) {
	var lines []string
	var severities []EventSeverity
	l := &Logger{output: func(severity EventSeverity, msg string) {
		lines = append(lines, msg)
		severities = append(severities, severity)
	}}
	return l, &lines, &severities
}

func TestNewSecurityEvent(t *testing.T) {
	event := NewSecurityEvent(EventShareMount, CategoryShareOperation, SeverityInfo, "Test message")

	if event.EventType != EventShareMount {
		t.Errorf("Expected EventType %s, got %s", EventShareMount, event.EventType)
	}
	if event.Category != CategoryShareOperation {
		t.Errorf("Expected Category %s, got %s", CategoryShareOperation, event.Category)
	}
	if event.Timestamp.IsZero() {
		t.Error("Expected Timestamp to be set, got zero time")
	}
	if event.Details == nil {
		t.Error("Expected Details map to be initialized")
	}
}

func TestFormatLogMessage(t *testing.T) {
	event := NewSecurityEvent(EventShareMount, CategoryShareOperation, SeverityInfo, "Share mount succeeded").
		WithOutcome(OutcomeSuccess).
		WithIdentity("op-1", "bob").
		WithShare("//nas/media", "/mnt/nas_media").
		WithDuration(1500 * time.Millisecond).
		WithDetail("platform", "linux")

	msg := formatLogMessage(event)

	for _, want := range []string{
		"[SECURITY]",
		"category=share_operation",
		"type=share_mount",
		"outcome=success",
		`msg="Share mount succeeded"`,
		"op=op-1",
		`username="bob"`,
		`server="//nas/media"`,
		`mountpoint="/mnt/nas_media"`,
		"duration_ms=1500",
		`platform="linux"`,
		"timestamp=",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("Expected %q in %q", want, msg)
		}
	}
}

func TestLogShareMount(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantSeverity EventSeverity
		wantParts    []string
	}{
		{
			name:         "success",
			wantSeverity: SeverityInfo,
			wantParts:    []string{"type=share_mount", "outcome=success"},
		},
		{
			name:         "native failure",
			err:          errors.New("mount error(13): Permission denied"),
			wantSeverity: SeverityError,
			wantParts:    []string{"outcome=failure", `error="mount error(13): Permission denied"`},
		},
		{
			name:         "rejected request",
			err:          utils.NewValidationError("username", "cannot contain ','"),
			wantSeverity: SeverityWarning,
			wantParts:    []string{"category=security_violation", "type=validation_failure", "outcome=denied"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, lines, severities := captureLogger()

			l.LogShareMount(ShareOperation{
				OperationID: "op-1",
				Server:      "//nas/media",
				Username:    "bob",
				Mountpoint:  "/mnt/nas_media",
				Err:         tt.err,
			})

			if len(*lines) != 1 {
				t.Fatalf("Expected one line, got %d", len(*lines))
			}
			if (*severities)[0] != tt.wantSeverity {
				t.Errorf("Expected severity %s, got %s", tt.wantSeverity, (*severities)[0])
			}
			for _, part := range tt.wantParts {
				if !strings.Contains((*lines)[0], part) {
					t.Errorf("Expected %q in %q", part, (*lines)[0])
				}
			}
		})
	}
}

func TestLogShareOperationRedactsPassword(t *testing.T) {
	l, lines, _ := captureLogger()

	l.LogShareUnmount(ShareOperation{
		Server:     "//nas/media",
		Password:   "hunter2",
		Mountpoint: "/mnt/x",
		Err:        errors.New("mount -t smbfs //bob:hunter2@nas/media failed"),
	})

	if strings.Contains((*lines)[0], "hunter2") {
		t.Errorf("Password leaked into audit line: %s", (*lines)[0])
	}
	if !strings.Contains((*lines)[0], "type=share_unmount") {
		t.Errorf("Expected unmount event, got %s", (*lines)[0])
	}
}

func TestLogShareMountKeepsRequestFieldsOnOneLine(t *testing.T) {
	l, lines, _ := captureLogger()

	l.LogShareMount(ShareOperation{
		OperationID: "op-1",
		Server:      "//nas/media\r\n[SECURITY] category=share_operation",
		Username:    "bob\n[SECURITY] category=share_operation outcome=success forged",
		Mountpoint:  "/mnt/x\n",
		Err:         utils.NewValidationError("username", "contains control character"),
	})

	if len(*lines) != 1 {
		t.Fatalf("Expected one line, got %d", len(*lines))
	}
	line := (*lines)[0]
	if strings.ContainsAny(line, "\r\n") {
		t.Errorf("Audit line contains a raw line break: %q", line)
	}
	if !strings.HasPrefix(line, "[SECURITY]") {
		t.Errorf("Expected line to start with [SECURITY], got %q", line)
	}
	if !strings.Contains(line, `username="bob\n[SECURITY] category=share_operation outcome=success forged"`) {
		t.Errorf("Expected quoted username in %q", line)
	}
}
