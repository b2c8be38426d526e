// Package audio holds decoded stimulus clips and the playback contract the
// trial controller drives.
//
// A Clip is an interleaved float32 waveform plus its sample rate; DecodeWAV
// produces one from PCM or IEEE-float RIFF/WAVE data. Players start a Playback
// per clip. A Playback signals Done only when it ends on its own, either by
// playing to the end or by failing; stopping a playback never signals Done,
// which is what lets the controller treat Done as "listened in full".
//
// ExecPlayer pipes raw s16le PCM into an external binary (aplay, ffplay).
// TimedPlayer plays nothing and completes after the clip duration, for
// rehearsals on machines without an audio device.
package audio
