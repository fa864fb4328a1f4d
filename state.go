package nanocmp

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/pthm/nanocmp/lib/dom"
)

// StateAttr carries an instance's encoded data fields when the registry has
// a StateEncoder. Client code or a later request can read it back with
// DecodeState.
const StateAttr = "data-nc-state"

// exportState writes the instance data to StateAttr. Data that msgpack can't
// encode (functions, channels) leaves the attribute off.
func (r *Registry) exportState(in *Instance) {
	if r.opts.StateEncoder == nil {
		return
	}
	encoded, err := r.opts.StateEncoder.Encode(in.data, r.opts.SensitiveState)
	if err != nil {
		r.log.Warn().Err(err).Str("tag", in.Tag).Msg("instance state not exported")
		return
	}
	dom.SetAttr(in.Node, StateAttr, encoded)
}

// DecodeState reads back the state exported on node.
//
// Returns ErrNoState when the registry has no encoder or node carries no
// state, and ErrInvalidFormat, ErrSignatureInvalid or ErrDecryptFailed when
// the attribute doesn't decode.
func (r *Registry) DecodeState(node *html.Node) (map[string]any, error) {
	if r.opts.StateEncoder == nil {
		return nil, fmt.Errorf("%w: no state encoder configured", ErrNoState)
	}
	encoded, ok := dom.Attr(node, StateAttr)
	if !ok {
		return nil, fmt.Errorf("%w: <%s> has no %s attribute", ErrNoState, node.Data, StateAttr)
	}
	state, err := r.opts.StateEncoder.Decode(encoded, r.opts.SensitiveState)
	if err != nil {
		return nil, wrapEncodingError(err)
	}
	return state, nil
}
