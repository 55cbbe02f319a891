package image

import (
	"image"
	"image/color"
	"image/jpeg"
	"io"
)

// RGBToRGBA expands packed RGB24 rows into opaque RGBA. inStride is the
// source row length in bytes; 0 derives it from len(in)/height.
func RGBToRGBA(in, out []byte, width, height, inStride int) {
	outStride := width * 4
	if inStride <= 0 {
		inStride = len(in) / height
	}

	for i := 0; i < height; i++ {
		oIndex := i * outStride
		iIndex := i * inStride
		for j := 0; j < width; j++ {
			out[oIndex] = in[iIndex]
			out[oIndex+1] = in[iIndex+1]
			out[oIndex+2] = in[iIndex+2]
			out[oIndex+3] = 0xff

			oIndex += 4
			iIndex += 3
		}
	}
}

// YUYVToRGBA converts packed YUV 4:2:2 (Y0 U Y1 V) into opaque RGBA.
// Width must be even.
func YUYVToRGBA(in, out []byte, width, height, inStride int) {
	outStride := width * 4
	if inStride <= 0 {
		inStride = len(in) / height
	}

	for i := 0; i < height; i++ {
		oIndex := i * outStride
		iIndex := i * inStride
		for j := 0; j < width; j += 2 {
			y0, u, y1, v := in[iIndex], in[iIndex+1], in[iIndex+2], in[iIndex+3]

			r, g, b := color.YCbCrToRGB(y0, u, v)
			out[oIndex], out[oIndex+1], out[oIndex+2], out[oIndex+3] = r, g, b, 0xff
			r, g, b = color.YCbCrToRGB(y1, u, v)
			out[oIndex+4], out[oIndex+5], out[oIndex+6], out[oIndex+7] = r, g, b, 0xff

			oIndex += 8
			iIndex += 4
		}
	}
}

// CopyRGBA copies RGBA rows and forces every pixel opaque.
func CopyRGBA(in, out []byte, width, height, inStride int) {
	outStride := width * 4
	if inStride <= 0 {
		inStride = len(in) / height
	}

	for i := 0; i < height; i++ {
		row := out[i*outStride : (i+1)*outStride]
		copy(row, in[i*inStride:i*inStride+outStride])
		for j := 3; j < len(row); j += 4 {
			row[j] = 0xff
		}
	}
}

func EncodeJPEG(img image.Image, dst io.Writer, quality int) error {
	return jpeg.Encode(dst, img, &jpeg.Options{Quality: quality})
}
