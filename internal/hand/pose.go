package hand

// Pose builds a plausible 21-point hand whose index fingertip sits at tip. With grip set,
// all four fingers are curled toward the wrist. Synthetic sources and tests use it in place
// of a camera.
func Pose(tip Landmark, grip bool) [LandmarkCount]Landmark {
	var lm [LandmarkCount]Landmark

	offsets := [4]float64{0, 0.02, 0.04, 0.06}
	var wrist Landmark
	if grip {
		wrist = Landmark{X: tip.X, Y: tip.Y + 0.08, Z: tip.Z}
	} else {
		wrist = Landmark{X: tip.X, Y: tip.Y + 0.22, Z: tip.Z}
	}
	lm[Wrist] = wrist

	at := func(dx, dy float64) Landmark {
		return Landmark{X: wrist.X + dx, Y: wrist.Y + dy, Z: wrist.Z}
	}

	lm[ThumbCMC] = at(-0.04, -0.03)
	lm[ThumbMCP] = at(-0.07, -0.06)
	lm[ThumbIP] = at(-0.09, -0.08)
	lm[ThumbTip] = at(-0.10, -0.10)

	for i, f := range fingers {
		ox := offsets[i]
		mcp := f[0] - 1
		if grip {
			lm[mcp] = at(ox, -0.10)
			lm[f[0]] = at(ox, -0.14)
			lm[f[0]+1] = at(ox, -0.11)
			lm[f[1]] = at(ox, -0.08)
		} else {
			lm[mcp] = at(ox, -0.10)
			lm[f[0]] = at(ox, -0.14)
			lm[f[0]+1] = at(ox, -0.18)
			lm[f[1]] = at(ox, -0.22)
		}
	}
	return lm
}
