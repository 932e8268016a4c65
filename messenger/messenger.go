// Package messenger is the outbound order channel: a pre-formatted text
// body delivered to a target address, with no delivery receipt beyond
// the transport error.
package messenger

import "context"

type Sender interface {
	Send(ctx context.Context, target, text string) error
}
