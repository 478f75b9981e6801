package teststreaming

import "github.com/flavioribeiro/nalsplit/internal/entities"

var H264_R_N_N_R_N_R = H264Stream("RNNRNR")
var H264_LONG_GOP = H264Stream("RNNNNRNNNNRNNNNRN")
var H264_NO_REFRESH = H264Stream("NNNN")

var H265_R_N_N_R_N_R = H265Stream("RNNRNR")
var H265_LONG_GOP = H265Stream("RNNNRNNNRN")

var IVF_VP8_R_N_N_R_N_R = IVFStream(entities.VP8, "RNNRNR")
var IVF_VP9_R_N_N_R_N_R = IVFStream(entities.VP9, "RNNRNR")
