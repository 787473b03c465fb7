/*
Package bz2xsi provides parsing, writing, and validation for Battlezone II
XSI model files (the "xsi 0101txt 0032" text dialect).

It focuses on faithful round-tripping of the BZ2 subset: frame hierarchies
with transform and base pose matrices, meshes with normals, UV maps, vertex
colors and per-face materials, animation keys, bone envelopes, point lights,
and cameras. Template names are matched loosely, with or without the SI_
prefix, the way the game's own tooling accepts them.

Reader example:

	x, err := bz2xsi.DecodeFile("avtank00.xsi", nil)
	if err != nil {
		// handle error
	}

Writer example:

	out, err := bz2xsi.Format(x, nil)
	if err != nil {
		// handle error
	}

Validator example:

	issues := bz2xsi.Validate(x, nil)
	if len(issues) != 0 {
		// handle validation issues
	}

Material override example. Materials carry the custom-property vocabulary
used by modeling-tool exporters (diffuse, hardness, specular, ambient,
emissive, shading_type, texture); absent keys fall back to the stock
defaults:

	m, err := bz2xsi.MaterialFromProperties(bz2xsi.Properties{
		bz2xsi.PropDiffuse: []float64{1, 0.25, 0.25},
		bz2xsi.PropTexture: "avtank00.png",
	})

Frame flag example:

	flags := bz2xsi.ParseFrameFlags("turret_y__2e")
	if flags.DoubleSided && flags.Emissive {
		// render both sides, self-lit
	}
*/
package bz2xsi
