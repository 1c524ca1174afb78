package face

import "fmt"

// Point is one normalized 3D facial landmark. X and Y live in [0,1] image
// coordinates with Y increasing downward; Z is relative depth.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Canonical refined face-mesh indices for the anatomical points the
// engagement analyzer reads. These follow the detector's landmark scheme
// used by the web client.
const (
	IdxNoseTip        = 1
	IdxFaceCenterRef  = 10
	IdxMouthCenterTop = 13
	IdxLeftEyeOuter   = 33
	IdxMouthLeft      = 61
	IdxRightEyeOuter  = 263
	IdxMouthRight     = 291
)

// MinMeshPoints is the smallest mesh that still contains every canonical index.
const MinMeshPoints = IdxMouthRight + 1

// LandmarkSample holds the labeled points for a single detected frame. It is
// produced once per detector callback and never retained across frames.
type LandmarkSample struct {
	LeftEyeOuter   Point
	RightEyeOuter  Point
	MouthLeft      Point
	MouthRight     Point
	MouthCenterTop Point
	NoseTip        Point
	FaceCenterRef  Point
}

// SampleFromMesh extracts the canonical points from a full detector mesh.
func SampleFromMesh(points []Point) (LandmarkSample, error) {
	if len(points) < MinMeshPoints {
		return LandmarkSample{}, fmt.Errorf("mesh has %d points, need at least %d", len(points), MinMeshPoints)
	}

	return LandmarkSample{
		LeftEyeOuter:   points[IdxLeftEyeOuter],
		RightEyeOuter:  points[IdxRightEyeOuter],
		MouthLeft:      points[IdxMouthLeft],
		MouthRight:     points[IdxMouthRight],
		MouthCenterTop: points[IdxMouthCenterTop],
		NoseTip:        points[IdxNoseTip],
		FaceCenterRef:  points[IdxFaceCenterRef],
	}, nil
}
