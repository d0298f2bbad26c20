package mixer

import (
	"math"
	"sort"

	"github.com/Carmen-Shannon/oxy-stage/engine/model"
)

// sampleChannel writes the channel's value at time t into the transform.
// Tracks without keys leave the corresponding component untouched.
func sampleChannel(dst *model.Transform, ch model.AnimationChannel, t float32) {
	if len(ch.PositionKeys) > 0 {
		dst.Translation = sampleVector(ch.PositionKeys, t)
	}
	if len(ch.RotationKeys) > 0 {
		dst.Rotation = sampleQuaternion(ch.RotationKeys, t)
	}
	if len(ch.ScaleKeys) > 0 {
		dst.Scale = sampleVector(ch.ScaleKeys, t)
	}
}

// bracket returns the keys around t and the blend factor between them.
func bracket(n int, timeAt func(int) float32, t float32) (int, int, float32) {
	i := sort.Search(n, func(i int) bool { return timeAt(i) > t })
	switch {
	case i == 0:
		return 0, 0, 0
	case i == n:
		return n - 1, n - 1, 0
	}

	t0, t1 := timeAt(i-1), timeAt(i)
	if t1 <= t0 {
		return i, i, 0
	}
	return i - 1, i, (t - t0) / (t1 - t0)
}

func sampleVector(keys []model.VectorKeyframe, t float32) [3]float32 {
	a, b, f := bracket(len(keys), func(i int) float32 { return keys[i].Time }, t)
	va, vb := keys[a].Value, keys[b].Value
	return [3]float32{
		va[0] + (vb[0]-va[0])*f,
		va[1] + (vb[1]-va[1])*f,
		va[2] + (vb[2]-va[2])*f,
	}
}

// sampleQuaternion blends with normalized lerp along the shorter arc.
func sampleQuaternion(keys []model.QuaternionKeyframe, t float32) [4]float32 {
	a, b, f := bracket(len(keys), func(i int) float32 { return keys[i].Time }, t)
	qa, qb := keys[a].Value, keys[b].Value

	dot := qa[0]*qb[0] + qa[1]*qb[1] + qa[2]*qb[2] + qa[3]*qb[3]
	if dot < 0 {
		qb = [4]float32{-qb[0], -qb[1], -qb[2], -qb[3]}
	}

	var q [4]float32
	var length float64
	for i := range q {
		q[i] = qa[i] + (qb[i]-qa[i])*f
		length += float64(q[i] * q[i])
	}
	if length = math.Sqrt(length); length > 1e-6 {
		for i := range q {
			q[i] = float32(float64(q[i]) / length)
		}
	}
	return q
}
