package chesspresenter

import (
	"strings"

	"github.com/park285/Cheese-IRC-bot/internal/util"
)

// Presenter delivers formatted replies line by line without coupling to the transport.
type Presenter struct {
	sendLine func(target, line string) error
	limit    int
}

func NewPresenter(sendLine func(target, line string) error) *Presenter {
	return &Presenter{sendLine: sendLine, limit: util.MaxLineBytes}
}

// Reply sends message to target, split into IRC-sized lines.
func (p *Presenter) Reply(target, message string) error {
	if p == nil || p.sendLine == nil || strings.TrimSpace(message) == "" {
		return nil
	}
	for _, line := range util.SplitLines(message, p.limit) {
		if err := p.sendLine(target, util.StripControl(line)); err != nil {
			return err
		}
	}
	return nil
}
