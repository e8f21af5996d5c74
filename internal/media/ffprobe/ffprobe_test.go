package ffprobe

import "testing"

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video", Width: 640, Height: 360, RFrameRate: "30000/1001"},
			{CodecType: "audio"},
			{CodecType: "audio"},
		},
		Format: Format{
			Duration: "123.45",
		},
	}
	if result.VideoStreamCount() != 1 {
		t.Fatalf("expected 1 video stream, got %d", result.VideoStreamCount())
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if !result.HasAudio() {
		t.Fatal("expected audio")
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	video, ok := result.VideoStream()
	if !ok {
		t.Fatal("expected video stream")
	}
	if video.Width != 640 || video.Height != 360 {
		t.Fatalf("unexpected dimensions: %dx%d", video.Width, video.Height)
	}
	rate := video.FrameRate()
	if rate < 29.96 || rate > 29.98 {
		t.Fatalf("unexpected frame rate: %v", rate)
	}
}

func TestFrameRateFallsBack(t *testing.T) {
	cases := []Stream{
		{RFrameRate: "0/0"},
		{RFrameRate: ""},
		{RFrameRate: "bogus"},
		{RFrameRate: "0", AvgFrameRate: "0"},
	}
	for _, stream := range cases {
		if rate := stream.FrameRate(); rate != FallbackFrameRate {
			t.Fatalf("stream %+v: expected fallback rate, got %v", stream, rate)
		}
	}
	// avg_frame_rate rescues a broken r_frame_rate.
	stream := Stream{RFrameRate: "0/0", AvgFrameRate: "25"}
	if rate := stream.FrameRate(); rate != 25 {
		t.Fatalf("expected avg rate 25, got %v", rate)
	}
}

func TestFrameCount(t *testing.T) {
	if got := (Stream{NBFrames: "240"}).FrameCount(); got != 240 {
		t.Fatalf("unexpected frame count: %d", got)
	}
	if got := (Stream{NBFrames: "N/A"}).FrameCount(); got != 0 {
		t.Fatalf("expected 0 for unparseable count, got %d", got)
	}
	if got := (Stream{}).FrameCount(); got != 0 {
		t.Fatalf("expected 0 for missing count, got %d", got)
	}
}
