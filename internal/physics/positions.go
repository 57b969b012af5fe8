package physics

import (
	"math"

	"github.com/san-kum/nchain/internal/dynamo"
)

// Project returns the n+1 joint positions of the chain. Point 0 is origin and
// point i+1 = point i + armLength·(sin θᵢ, -cos θᵢ). y points up, so θ = 0
// hangs straight below the origin.
func Project(thetas []float64, origin dynamo.Point, armLength float64) []dynamo.Point {
	return ProjectInto(make([]dynamo.Point, len(thetas)+1), thetas, origin, armLength)
}

// ProjectInto writes the joint positions into dst, which must hold at least
// len(thetas)+1 points, and returns dst[:len(thetas)+1].
func ProjectInto(dst []dynamo.Point, thetas []float64, origin dynamo.Point, armLength float64) []dynamo.Point {
	dst = dst[:len(thetas)+1]
	dst[0] = origin
	x, y := origin.X, origin.Y
	for i, theta := range thetas {
		sin, cos := math.Sincos(theta)
		x += sin * armLength
		y -= cos * armLength
		dst[i+1] = dynamo.Point{X: x, Y: y}
	}
	return dst
}
