package zoner4

import (
	"github.com/sirupsen/logrus"

	"github.com/zoner-draw/zmf/internal/model"
	"github.com/zoner-draw/zmf/internal/streamio"
)

// um2in converts micrometers to inches.
func um2in(v float64) float64 { return v / 1000.0 / 25.4 }

// readPoint reads two s32 micrometer values and converts them to inches.
func readPoint(r *streamio.Reader) (model.Point, error) {
	x, err := r.ReadS32()
	if err != nil {
		return model.Point{}, err
	}
	y, err := r.ReadS32()
	if err != nil {
		return model.Point{}, err
	}
	return model.Point{X: um2in(float64(x)), Y: um2in(float64(y))}, nil
}

// readUnscaledPoint reads two raw f32 values, no conversion.
func readUnscaledPoint(r *streamio.Reader) (model.Point, error) {
	x, err := r.ReadF32()
	if err != nil {
		return model.Point{}, err
	}
	y, err := r.ReadF32()
	if err != nil {
		return model.Point{}, err
	}
	return model.Point{X: float64(x), Y: float64(y)}, nil
}

// readBoundingBox reads the 8-byte unknown prefix, then four points via
// readPoint, and builds a BoundingBox from them.
func readBoundingBox(r *streamio.Reader) (model.BoundingBox, error) {
	if err := r.Skip(8); err != nil {
		return model.BoundingBox{}, err
	}
	var pts [4]model.Point
	for i := range pts {
		p, err := readPoint(r)
		if err != nil {
			return model.BoundingBox{}, err
		}
		pts[i] = p
	}
	return model.NewBoundingBox(pts), nil
}

const maxCurveComponents = 10000
const maxCurvePoints = 10000
const curveSectionTerminator = 0x64

type pointReaderFunc func(r *streamio.Reader) (model.Point, error)

// readCurveSectionTypes reads section tags until the 0x64 terminator.
// Unrecognized tags default to LINE with a warning; BEZIER_CURVE consumes
// 8 extra control bytes.
func readCurveSectionTypes(r *streamio.Reader, log logrus.FieldLogger) ([]model.CurveSectionType, error) {
	var types []model.CurveSectionType
	for {
		tag, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		switch tag {
		case curveSectionTerminator:
			return types, nil
		case 2:
			types = append(types, model.SectionBezier)
			if err := r.Skip(8); err != nil {
				return nil, err
			}
		case 1:
			types = append(types, model.SectionLine)
		default:
			log.WithField("tag", tag).Debug("zoner4: unknown curve section tag, defaulting to LINE")
			types = append(types, model.SectionLine)
		}
	}
}

// readCurveComponents reads a curve-component list as used by paths,
// arrows and polygon peaks: component metadata (point count, closed flag)
// for every component, then every component's points via readPointFn,
// then every component's section tags - in that order, matching the
// source's three-pass layout.
func readCurveComponents(r *streamio.Reader, readPointFn pointReaderFunc, log logrus.FieldLogger) ([]model.Curve, error) {
	componentCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if componentCount == 0 || componentCount > maxCurveComponents {
		return nil, streamio.NewGeneric("zoner4: curve component count out of range")
	}

	curves := make([]model.Curve, componentCount)
	for i := range curves {
		if err := r.Skip(8); err != nil {
			return nil, err
		}
		pointCount, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		if pointCount == 0 || pointCount > maxCurvePoints {
			return nil, streamio.NewGeneric("zoner4: curve point count out of range")
		}
		closedFlag, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		curves[i].Points = make([]model.Point, pointCount)
		curves[i].Closed = closedFlag != 0
	}

	for i := range curves {
		for j := range curves[i].Points {
			p, err := readPointFn(r)
			if err != nil {
				return nil, err
			}
			curves[i].Points[j] = p
		}
	}

	for i := range curves {
		types, err := readCurveSectionTypes(r, log)
		if err != nil {
			return nil, err
		}
		curves[i].SectionTypes = types
	}

	return curves, nil
}
