package hermes

import (
	"strings"
	"testing"
)

func TestSubjectsFallUnderStream(t *testing.T) {
	prefix := strings.TrimSuffix(SubjectSessionWildcard, ">")
	for _, s := range []string{
		SubjectSessionCreated("abc"),
		SubjectRankChanged("abc"),
		SubjectWeightsCalculated("abc"),
	} {
		if !strings.HasPrefix(s, prefix) {
			t.Errorf("subject %q not covered by %q", s, SubjectSessionWildcard)
		}
	}
}

func TestSubjectNames(t *testing.T) {
	if got := SubjectRankChanged("s1"); got != "apportion.session.s1.rank_changed" {
		t.Errorf("unexpected subject %q", got)
	}
	if got := SubjectWeightsCalculated("s1"); got != "apportion.session.s1.weights_calculated" {
		t.Errorf("unexpected subject %q", got)
	}
}

func TestNopClient(t *testing.T) {
	var c Client = Nop{}
	if err := c.Publish("x", map[string]string{"a": "b"}); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if err := c.Subscribe("x", func(string, []byte) {}); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	c.Close()
}
