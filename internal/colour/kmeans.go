package colour

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand"
	"sync"

	"golang.org/x/image/draw"
)

// DominantSampler proposes a single representative accent for an image.
// Pixels are clustered with k-means and the cluster with the best mix of
// coverage and vividness wins.
type DominantSampler struct {
	clusters      int
	maxIterations int
	convergence   float64
	maxDimension  int

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewDominantSampler creates a DominantSampler with default settings.
func NewDominantSampler() *DominantSampler {
	return &DominantSampler{
		clusters:      6,
		maxIterations: 20,
		convergence:   2.0,
		maxDimension:  160,
		rng:           rand.New(rand.NewSource(1)),
	}
}

// SampleDominant returns the dominant accent as a hex string, or "" when the
// image has no usable pixels (fully transparent, or only greys at the extremes).
func (s *DominantSampler) SampleDominant(img image.Image) (string, error) {
	if img == nil {
		return "", fmt.Errorf("image cannot be nil")
	}

	pixels := samplePixels(s.downscale(img))
	if len(pixels) == 0 {
		return "", nil
	}

	points := make([]point3D, len(pixels))
	for i, rgb := range pixels {
		points[i] = point3D{R: float64(rgb.R), G: float64(rgb.G), B: float64(rgb.B)}
	}

	k := min(s.clusters, len(points))
	s.mu.Lock()
	centroids, weights := s.kmeans(points, k)
	s.mu.Unlock()

	best := -1
	bestScore := 0.0
	for i, c := range centroids {
		rgb := RGB{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B)}
		score := weights[i] * vividness(rgb)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return "", nil
	}

	c := centroids[best]
	return RGB{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B)}.Hex(), nil
}

// vividness favours saturated mid-lightness colours. Near-black and
// near-white greys score zero.
func vividness(rgb RGB) float64 {
	s, l := saturationLightness(rgb)
	if s < 0.08 && (l < 0.1 || l > 0.9) {
		return 0
	}
	return (0.25 + s) * (1 - math.Abs(l-0.5))
}

// downscale shrinks large images so sampling cost is bounded.
func (s *DominantSampler) downscale(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= s.maxDimension && h <= s.maxDimension {
		return img
	}

	ratio := float64(s.maxDimension) / float64(max(w, h))
	dw := max(1, int(float64(w)*ratio))
	dh := max(1, int(float64(h)*ratio))

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// point3D represents a point in 3D RGB colour space.
type point3D struct {
	R, G, B float64
}

// distance calculates the Euclidean distance between two points in RGB space.
func (p point3D) distance(other point3D) float64 {
	dr := p.R - other.R
	dg := p.G - other.G
	db := p.B - other.B
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// samplePixels grid-samples opaque pixels from the image.
func samplePixels(img image.Image) []RGB {
	bounds := img.Bounds()
	totalPixels := bounds.Dx() * bounds.Dy()

	const maxSamples = 2000

	step := 1
	if totalPixels > maxSamples {
		step = max(int(math.Sqrt(float64(totalPixels)/float64(maxSamples))), 1)
	}

	pixels := make([]RGB, 0, min(totalPixels, maxSamples))
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A < 128 {
				continue
			}
			pixels = append(pixels, RGB{R: c.R, G: c.G, B: c.B})
			if len(pixels) >= maxSamples {
				return pixels
			}
		}
	}

	return pixels
}

// kmeans performs k-means clustering on the points.
// Returns centroids and their weights (relative cluster sizes).
func (s *DominantSampler) kmeans(points []point3D, k int) ([]point3D, []float64) {
	centroids := s.initializeCentroids(points, k)
	assignments := make([]int, len(points))

	for iter := 0; iter < s.maxIterations; iter++ {
		changed := 0
		for i, point := range points {
			nearest := findNearestCentroid(point, centroids)
			if assignments[i] != nearest {
				assignments[i] = nearest
				changed++
			}
		}

		// Fewer than 1% reassigned: converged.
		if iter > 0 && float64(changed)/float64(len(points)) < 0.01 {
			break
		}

		newCentroids := s.recalculateCentroids(points, assignments, k)

		totalMovement := 0.0
		for i := range centroids {
			totalMovement += centroids[i].distance(newCentroids[i])
		}
		centroids = newCentroids

		if totalMovement/float64(k) < s.convergence {
			break
		}
	}

	// Weights reflect the final centroids, not the last assignment pass.
	for i, point := range points {
		assignments[i] = findNearestCentroid(point, centroids)
	}

	weights := make([]float64, k)
	for _, assignment := range assignments {
		weights[assignment]++
	}
	for i := range weights {
		weights[i] /= float64(len(assignments))
	}

	return centroids, weights
}

// initializeCentroids seeds centroids using k-means++.
func (s *DominantSampler) initializeCentroids(points []point3D, k int) []point3D {
	centroids := make([]point3D, 0, k)
	centroids = append(centroids, points[s.rng.Intn(len(points))])

	distances := make([]float64, len(points))
	for len(centroids) < k {
		totalDistance := 0.0
		for i, point := range points {
			d := point.distance(centroids[findNearestCentroid(point, centroids)])
			distances[i] = d * d
			totalDistance += distances[i]
		}

		if totalDistance == 0 {
			// Every point coincides with a centroid.
			last := centroids[len(centroids)-1]
			centroids = append(centroids, point3D{R: last.R + 0.1, G: last.G + 0.1, B: last.B + 0.1})
			continue
		}

		target := s.rng.Float64() * totalDistance
		cumulative := 0.0
		for i, dist := range distances {
			cumulative += dist
			if cumulative >= target {
				centroids = append(centroids, points[i])
				break
			}
		}
	}

	return centroids
}

// findNearestCentroid finds the index of the nearest centroid to a point.
func findNearestCentroid(point point3D, centroids []point3D) int {
	minDist := math.MaxFloat64
	nearest := 0
	for i, centroid := range centroids {
		if dist := point.distance(centroid); dist < minDist {
			minDist = dist
			nearest = i
		}
	}
	return nearest
}

// recalculateCentroids moves each centroid to the mean of its points.
func (s *DominantSampler) recalculateCentroids(points []point3D, assignments []int, k int) []point3D {
	sums := make([]point3D, k)
	counts := make([]int, k)

	for i, point := range points {
		cluster := assignments[i]
		sums[cluster].R += point.R
		sums[cluster].G += point.G
		sums[cluster].B += point.B
		counts[cluster]++
	}

	centroids := make([]point3D, k)
	for i := 0; i < k; i++ {
		if counts[i] > 0 {
			n := float64(counts[i])
			centroids[i] = point3D{R: sums[i].R / n, G: sums[i].G / n, B: sums[i].B / n}
		} else {
			// Empty cluster - reseed.
			centroids[i] = points[s.rng.Intn(len(points))]
		}
	}

	return centroids
}
