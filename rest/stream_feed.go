package rest

import (
	"bufio"
	"io"

	"github.com/mevansam/jmux"
	"github.com/mevansam/jmux/logger"
)

// FeedToDemultiplexer reads body one rune at a time, matching the
// way a token-streamed completion API delivers a response, and calls
// demux.FeedChar for each. It returns the first error produced by
// either side: a read error from body, or a poisoning error from
// demux.
//
// The caller owns body and is responsible for closing it; this
// function only reads from it.
func FeedToDemultiplexer(body io.Reader, demux *jmux.Demultiplexer) error {

	r := bufio.NewReader(body)
	for {
		ch, _, err := r.ReadRune()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err = demux.FeedChar(ch); err != nil {
			logger.DebugMessage("rest.FeedToDemultiplexer: feed failed: %s", err.Error())
			return err
		}
	}
}
