package slam

import (
	"github.com/foxis/trackcore/pkg/relation"
	"github.com/foxis/trackcore/pkg/xrmath"
)

// GetTrackedPose drains the engine's pose queue, predicts the latest
// relation forward to queryTsNs, filters it, and caches the result.
// It never blocks on the external engine beyond TryDequeuePose's own
// non-blocking contract, and is safe to call from a rendering hot path.
func (a *Adapter) GetTrackedPose(queryTsNs int64) relation.Relation {
	a.flush()

	a.mu.Lock()
	if a.haveCache && a.cacheTsNs == queryTsNs {
		cached := a.cacheRel
		a.mu.Unlock()
		return cached
	}

	latestTsNs, latest := a.history.Latest()
	if a.history.Len() == 0 {
		a.mu.Unlock()
		return relation.Invalid()
	}

	predicted := a.predictLocked(latestTsNs, latest, queryTsNs)
	a.mu.Unlock()

	filtered := a.filterUnlocked(queryTsNs, predicted)

	a.mu.Lock()
	a.cacheTsNs = queryTsNs
	a.cacheRel = filtered
	a.haveCache = true
	if a.csv != nil {
		_ = a.csv.WriteTrajectory(queryTsNs, filtered.Pose)
	}
	a.mu.Unlock()

	return filtered
}

// flush drains TryDequeuePose, converting each SLAM pose into a
// fully-valid Relation pushed onto the history. The engine is always
// dequeued with the adapter mutex released; only the history fold
// itself takes the lock.
func (a *Adapter) flush() {
	for {
		ts, pose, ok := a.engine.TryDequeuePose()
		if !ok {
			return
		}

		a.mu.Lock()
		lts, old := a.history.Latest()
		r := relation.Zero()
		r.Pose = pose

		if a.history.Len() > 0 {
			dt := float32(ts-lts) / 1e9
			if dt > 0 {
				r.LinearVelocity = xrmath.Vec3ScalarMul(xrmath.Vec3Sub(pose.Position, old.Pose.Position), 1/dt)
				r.AngularVelocity = xrmath.QuatFiniteDifference(old.Pose.Orientation, pose.Orientation, dt)
			}
		}

		a.history.Push(r, ts)
		a.mu.Unlock()
	}
}

// predictLocked advances latest to queryTsNs per the adapter's
// PredictionMode. Must be called with a.mu held (it reads the gyro/accel
// FIFOs).
//
// It uses two distinct deltas rather than one: IMU samples stop
// arriving at a.lastImuTsNs, so the gyro/accel buildup only covers
// [latestTsNs, lastImuTsNs] — the window the IMU actually has samples
// for — while the final position/orientation integration must still
// project all the way out to queryTsNs at the velocity the buildup
// produced. The two windows diverge whenever the query time runs ahead
// of the newest IMU sample, which is the common case on a render path.
func (a *Adapter) predictLocked(latestTsNs int64, latest relation.Relation, queryTsNs int64) relation.Relation {
	if a.Mode == PredictNone {
		return latest
	}
	if a.Mode == PredictSPSOSASL || queryTsNs < latestTsNs {
		_, r := a.history.Get(queryTsNs)
		return r
	}

	dtQuerySeconds := float32(queryTsNs-latestTsNs) / 1e9
	if dtQuerySeconds <= 0 {
		return latest
	}

	dtImuSeconds := float32(a.lastImuTsNs-latestTsNs) / 1e9
	if dtImuSeconds < 0 {
		dtImuSeconds = 0
	}
	imuTsNs := a.lastImuTsNs
	if imuTsNs < latestTsNs {
		imuTsNs = latestTsNs
	}

	result := latest
	if avgGyro, n := a.gyroFIFO.Filter(latestTsNs, imuTsNs); n > 0 {
		result.AngularVelocity = avgGyro
	}

	if a.Mode == PredictSPSOIAIL {
		if avgAccel, n := a.accelFIFO.Filter(latestTsNs, imuTsNs); n > 0 {
			worldAccel := xrmath.Vec3Add(xrmath.QuatRotateVec3(latest.Pose.Orientation, avgAccel), a.GravityVec)
			result.LinearVelocity = xrmath.Vec3Accum(result.LinearVelocity, dtImuSeconds, worldAccel)
		}
	}

	result.Pose = xrmath.PoseIntegrate(result.Pose, result.LinearVelocity, result.AngularVelocity, dtQuerySeconds)
	return result
}

// filterUnlocked passes r's pose through the one-Euro and exponential
// filters, whichever are enabled; no moving-average stage is applied to
// the pose. Called without
// a.mu held: filter state only ever has this one caller, and the lock
// is released before any real computation happens.
func (a *Adapter) filterUnlocked(queryTsNs int64, r relation.Relation) relation.Relation {
	pos, ori := r.Pose.Position, r.Pose.Orientation

	if a.EnableOneEuro {
		pos = a.oneEuroPos.Filter(queryTsNs, pos)
		ori = a.oneEuroOri.Filter(queryTsNs, ori)
	}
	if a.EnableExponential {
		pos, ori = a.exponential.Update(pos, ori)
	}

	r.Pose.Position = pos
	r.Pose.Orientation = ori
	return r
}
