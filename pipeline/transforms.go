// File: pipeline/transforms.go
// Author: momentics <momentics@gmail.com>
package pipeline

import "github.com/momentics/rivermedia/api"

// PlanarYUV422ToUYVY converts planar 8-bit 4:2:2 (Y plane, then U plane,
// then V plane, each group-of-2 pixels) to packed UYVY422, the Converter
// stage's default transform (§4.7).
func PlanarYUV422ToUYVY(width, height int) TransformFunc {
	groupsPerFrame := (width / 2) * height
	ySize := width * height
	cSize := groupsPerFrame
	return func(src []byte) ([]byte, error) {
		if len(src) < ySize+2*cSize {
			return nil, api.NewError(api.ErrKindInvalidArgument, "pipeline: planar frame shorter than width*height*2")
		}
		y := src[:ySize]
		u := src[ySize : ySize+cSize]
		v := src[ySize+cSize : ySize+2*cSize]

		dst := make([]byte, groupsPerFrame*4)
		for g := 0; g < groupsPerFrame; g++ {
			dst[g*4+0] = u[g]
			dst[g*4+1] = y[g*2+0]
			dst[g*4+2] = v[g]
			dst[g*4+3] = y[g*2+1]
		}
		return dst, nil
	}
}

// PCMTo24BitBE converts interleaved little-endian PCM samples of the given
// source bit depth to big-endian 24-bit samples, the Encoder stage's
// default transform (§4.7).
func PCMTo24BitBE(srcBitDepth int) TransformFunc {
	srcBytes := srcBitDepth / 8
	return func(src []byte) ([]byte, error) {
		if len(src)%srcBytes != 0 {
			return nil, api.NewError(api.ErrKindInvalidArgument, "pipeline: PCM buffer not a multiple of the sample width")
		}
		numSamples := len(src) / srcBytes
		dst := make([]byte, numSamples*3)
		for i := 0; i < numSamples; i++ {
			sample := src[i*srcBytes : (i+1)*srcBytes]
			var v int32
			for b := 0; b < srcBytes; b++ {
				v |= int32(sample[b]) << uint(8*b)
			}
			// sign-extend then re-scale to 24 bits
			shift := uint(32 - srcBitDepth)
			v = (v << shift) >> shift
			var v24 int32
			if srcBitDepth < 24 {
				v24 = v << uint(24-srcBitDepth)
			} else {
				v24 = v >> uint(srcBitDepth-24)
			}
			dst[i*3+0] = byte(v24 >> 16)
			dst[i*3+1] = byte(v24 >> 8)
			dst[i*3+2] = byte(v24)
		}
		return dst, nil
	}
}
