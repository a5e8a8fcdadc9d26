/*
DESCRIPTION
  logging.go adapts github.com/ausocean/utils/logging.Logger for use inside
  the decoder. The facility is injected via Config.Log rather than held in a
  package variable: §5 of the specification forbids global mutable state
  beyond the once-initialised CPU-feature probe, and row workers must be free
  to log without contending on shared state.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avsdec

import "github.com/ausocean/utils/logging"

// discardLogger implements logging.Logger and drops everything. It is
// installed when Config.Log is nil so call sites never need a nil check.
type discardLogger struct{}

func (discardLogger) Debug(msg string, args ...interface{})         {}
func (discardLogger) Info(msg string, args ...interface{})          {}
func (discardLogger) Warning(msg string, args ...interface{})       {}
func (discardLogger) Error(msg string, args ...interface{})         {}
func (discardLogger) Fatal(msg string, args ...interface{})         {}
func (discardLogger) SetLevel(lvl int8)                             {}
func (discardLogger) Log(lvl int8, msg string, args ...interface{}) {}

func logOrDiscard(l logging.Logger) logging.Logger {
	if l == nil {
		return discardLogger{}
	}
	return l
}
