package red

import "github.com/zezax/red/rerr"

type rerrError = rerr.Error
type rerrKind = rerr.Kind

const (
	KindParse     = rerr.KindParse
	KindAPI       = rerr.KindAPI
	KindLimit     = rerr.KindLimit
	KindMinimize  = rerr.KindMinimize
	KindSerialize = rerr.KindSerialize
	KindExec      = rerr.KindExec
	KindInternal  = rerr.KindInternal
)

// Is reports whether err is a rerr.Error of the given kind (possibly
// wrapped).
func Is(err error, kind Kind) bool { return rerr.Is(err, kind) }
