// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duplex

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates a send could not proceed because the data queue
// is full. The send drains whatever arrived in the meantime before this is
// returned; retry on another channel or apply backpressure.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrInactive is returned by sends after either side has initiated the
// close handshake. Receives keep draining queued traffic.
var ErrInactive = errors.New("duplex: channel inactive")

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}
