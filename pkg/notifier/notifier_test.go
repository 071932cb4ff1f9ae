package notifier

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{
			name: "plain",
			msg: Message{
				Title:  "OpenSSH 9.8 update",
				URL:    "https://archlinux.org/news/openssh/",
				Author: "Robin Candau",
				Body:   "Restart <code>sshd</code>.",
			},
			want: `<b><a href="https://archlinux.org/news/openssh/">OpenSSH 9.8 update</a></b>` +
				"\n\nRestart <code>sshd</code>.\n\n\nRobin Candau",
		},
		{
			name: "escapes_title_and_author",
			msg: Message{
				Title:  "GRUB & <bootloader>",
				URL:    "https://example.com/a?x=1&y=2",
				Author: "A & B",
				Body:   "<b>kept</b>",
			},
			want: `<b><a href="https://example.com/a?x=1&amp;y=2">GRUB &amp; &lt;bootloader&gt;</a></b>` +
				"\n\n<b>kept</b>\n\n\nA &amp; B",
		},
		{
			name: "empty_body",
			msg:  Message{Title: "T", URL: "u", Author: "a"},
			want: "<b><a href=\"u\">T</a></b>\n\n\n\n\na",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.msg); got != tt.want {
				t.Errorf("Format() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	netErr := errors.New("connection refused")

	tests := []struct {
		name string
		err  *TransportError
		want string
	}{
		{
			name: "description_preferred",
			err:  &TransportError{StatusCode: 400, Description: "Bad Request: chat not found", Body: `{"ok":false}`},
			want: "transport error: status 400: Bad Request: chat not found",
		},
		{
			name: "raw_body",
			err:  &TransportError{StatusCode: 502, Body: "bad gateway"},
			want: "transport error: status 502: bad gateway",
		},
		{
			name: "network",
			err:  &TransportError{Err: netErr},
			want: "transport error: connection refused",
		},
		{
			name: "status_only",
			err:  &TransportError{StatusCode: 500},
			want: "transport error: status 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.err, ErrTransport) {
				t.Error("expected errors.Is(err, ErrTransport)")
			}
		})
	}

	if !errors.Is(&TransportError{Err: netErr}, netErr) {
		t.Error("expected TransportError to unwrap to the network error")
	}
}
