package config

type WorkerKeyStruct struct {
	VideoCheckpointQueue string
}

var WorkerKey = &WorkerKeyStruct{
	VideoCheckpointQueue: "video_checkpoint_queue",
}
