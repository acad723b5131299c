package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

type pointF struct{ X, Y float64 }

func overlay(img *image.RGBA, r image.Rectangle, clr color.Color) {
	draw.Draw(img, r, image.NewUniform(clr), image.Point{}, draw.Over)
}

func drawDisc(img *image.RGBA, center image.Point, radius int, clr color.Color) {
	if radius <= 0 {
		blendPixel(img, center.X, center.Y, clr)
		return
	}
	rr := radius * radius
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y <= rr {
				blendPixel(img, center.X+x, center.Y+y, clr)
			}
		}
	}
}

func fillTriangle(img *image.RGBA, a, b, c pointF, clr color.Color) {
	minX := int(math.Floor(math.Min(a.X, math.Min(b.X, c.X))))
	maxX := int(math.Ceil(math.Max(a.X, math.Max(b.X, c.X))))
	minY := int(math.Floor(math.Min(a.Y, math.Min(b.Y, c.Y))))
	maxY := int(math.Ceil(math.Max(a.Y, math.Max(b.Y, c.Y))))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if inTriangle(float64(x)+0.5, float64(y)+0.5, a, b, c) {
				blendPixel(img, x, y, clr)
			}
		}
	}
}

func inTriangle(x, y float64, a, b, c pointF) bool {
	denom := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if denom == 0 {
		return false
	}
	alpha := ((b.Y-c.Y)*(x-c.X) + (c.X-b.X)*(y-c.Y)) / denom
	beta := ((c.Y-a.Y)*(x-c.X) + (a.X-c.X)*(y-c.Y)) / denom
	return alpha >= 0 && beta >= 0 && 1-alpha-beta >= 0
}

// blendPixel composites clr over the pixel at (x,y); points outside img are
// ignored.
func blendPixel(img *image.RGBA, x, y int, clr color.Color) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}
	_, _, _, sa := clr.RGBA()
	if sa == 0 {
		return
	}
	src := image.NewUniform(clr)
	draw.Draw(img, image.Rect(x, y, x+1, y+1), src, image.Point{}, draw.Over)
}
