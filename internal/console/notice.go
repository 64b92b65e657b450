package console

import "time"

// Notice é um aviso transitório que some sozinho após o TTL.
type Notice struct {
	Text    string
	Expires time.Time
}

func newNotice(text string, now time.Time, ttl time.Duration) Notice {
	return Notice{Text: text, Expires: now.Add(ttl)}
}

// Active indica se o aviso ainda deve ser exibido.
func (n Notice) Active(now time.Time) bool {
	return n.Text != "" && now.Before(n.Expires)
}

// Remaining é o tempo até o aviso sumir (usado pelo template para o auto-dismiss).
func (n Notice) Remaining(now time.Time) time.Duration {
	if !n.Active(now) {
		return 0
	}
	return n.Expires.Sub(now)
}
