package gamutcheck

// DropAlpha flattens img into a new opaque 8-bit raster of the same size and
// profile. Premultiplied colors are divided by alpha before the alpha
// component is discarded; the color samples otherwise pass through the same
// conversion path as Convert with a nil destination profile.
func DropAlpha(img *Raster) (*Raster, error) {
	cm := ColorModel{
		Components: 3,
		Transfer:   TransferByte,
		Profile:    img.Model.Profile,
	}
	out, err := NewRaster(img.Width, img.Height, cm)
	if err != nil {
		return nil, err
	}
	if err := convertInto(img, img.Model.Profile, img.Model.Profile, out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddAlpha returns a copy of img with an opaque, non-premultiplied alpha component.
// Rasters that already carry alpha are copied unchanged.
func AddAlpha(img *Raster) (*Raster, error) {
	if img.Model.HasAlpha {
		return img.Clone(), nil
	}
	cm := img.Model
	cm.Components = 4
	cm.HasAlpha = true
	out, err := NewRaster(img.Width, img.Height, cm)
	if err != nil {
		return nil, err
	}
	if err := convertInto(img, img.Model.Profile, img.Model.Profile, out); err != nil {
		return nil, err
	}
	return out, nil
}
