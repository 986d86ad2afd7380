package engine

import "errors"

// ErrConstruction reports a construction failure: invalid construction
// arguments, or the Hardware device's driver refusing to initialize or
// open. Create returns this wrapped with details; every other engine
// method never fails in-band.
var ErrConstruction = errors.New("aoldaq: construction failure")
