package tags

import (
	"github.com/yohamta/donburi"

	"github.com/automoto/oc-terrain/shared/gridindex"
)

var (
	Actor   = donburi.NewTag().SetName("Actor")
	Man     = donburi.NewTag().SetName("Man")
	Vehicle = donburi.NewTag().SetName("Vehicle")
)

// Resolv tags for terrain collision
const (
	ResolvBlockedMan     = gridindex.TagBlockedMan
	ResolvBlockedVehicle = gridindex.TagBlockedVehicle
	ResolvSample         = "sample"
)
