package vehicle

import (
	"image"
	"image/color"

	"github.com/Robogera/roadwatch/pkg/geom"
)

type Class string

const (
	ClassCar        Class = "car"
	ClassMotorcycle Class = "motorcycle"
	ClassBus        Class = "bus"
	ClassTruck      Class = "truck"
	ClassUnknown    Class = "unknown"
)

// COCO class indices of the vehicle categories we keep
var coco_classes = map[int]Class{
	2: ClassCar,
	3: ClassMotorcycle,
	5: ClassBus,
	7: ClassTruck,
}

func ClassFromIndex(index int) Class {
	if class, ok := coco_classes[index]; ok {
		return class
	}
	return ClassUnknown
}

func Classes() []Class {
	return []Class{ClassCar, ClassMotorcycle, ClassBus, ClassTruck}
}

func (c Class) Color() color.RGBA {
	switch c {
	case ClassCar:
		return color.RGBA{0, 255, 0, 255}
	case ClassMotorcycle:
		return color.RGBA{255, 0, 0, 255}
	case ClassBus:
		return color.RGBA{0, 0, 255, 255}
	case ClassTruck:
		return color.RGBA{255, 255, 0, 255}
	default:
		return color.RGBA{128, 128, 128, 255}
	}
}

// One detector output for a single frame
type Detection struct {
	Box        image.Rectangle
	Class      Class
	Confidence float32
}

func (d Detection) Center() image.Point {
	return geom.Center(d.Box)
}

// Detection annotated with a track id by the registry
type Tracked struct {
	Detection
	Id uint64
}
