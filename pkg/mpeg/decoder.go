package mpeg

/*
#cgo pkg-config: libavformat libavcodec libavutil libswscale

#include <stdlib.h>
#include <stdio.h>
#include <string.h>
#include <libavformat/avformat.h>
#include <libavcodec/avcodec.h>
#include <libavutil/imgutils.h>
#include <libswscale/swscale.h>
#include <libavutil/log.h>

typedef struct {
    AVFormatContext   *formatCtx;
    AVCodecContext    *codecCtx;
    AVFrame           *frame;
    AVFrame           *frameOut;
    struct SwsContext *swsCtx;
    int               videoStream;
    uint8_t           *bufferOut;
    int               bufferLen;
    volatile int      abortRequest;
} Decoder;

static int interrupt_cb(void *opaque) {
    Decoder *d = (Decoder *)opaque;
    return d->abortRequest;
}

static void decoder_abort(Decoder *d, int abort) {
    d->abortRequest = abort;
}

static int decoder_aborted(Decoder *d) {
    return d->abortRequest;
}

// Try a decoder by name; on success d->codecCtx holds the opened context.
static int try_open(Decoder *d, const AVCodec *candidate, AVCodecParameters *par) {
    AVCodecContext *ctx = avcodec_alloc_context3(candidate);
    if (!ctx) {
        return -1;
    }
    avcodec_parameters_to_context(ctx, par);
    ctx->thread_type = FF_THREAD_FRAME;
    ctx->thread_count = 0;
    if (avcodec_open2(ctx, candidate, NULL) < 0) {
        avcodec_free_context(&ctx);
        return -1;
    }
    d->codecCtx = ctx;
    return 0;
}

int init_decoder(const char *url, const char *format, Decoder *d) {
    av_log_set_level(AV_LOG_ERROR);
    d->videoStream = -1;

    d->formatCtx = avformat_alloc_context();
    if (!d->formatCtx) {
        return -1;
    }
    d->formatCtx->interrupt_callback.callback = interrupt_cb;
    d->formatCtx->interrupt_callback.opaque = d;

    const AVInputFormat *fmt = NULL;
    if (format && format[0] != '\0') {
        fmt = av_find_input_format(format);
    }
    if (avformat_open_input(&d->formatCtx, url, fmt, NULL) != 0) {
        fprintf(stderr, "Could not open input '%s'\n", url);
        return -1;
    }
    if (avformat_find_stream_info(d->formatCtx, NULL) < 0) {
        fprintf(stderr, "Could not find stream information\n");
        return -2;
    }

    int idx = av_find_best_stream(d->formatCtx, AVMEDIA_TYPE_VIDEO, -1, -1, NULL, 0);
    if (idx < 0) {
        fprintf(stderr, "No video stream found\n");
        return -3;
    }
    d->videoStream = idx;
    AVCodecParameters *par = d->formatCtx->streams[idx]->codecpar;

    // Hardware decoders first when one is named for this codec, then the
    // stock decoder.
    const char *envDecoder = getenv("VIDEO_DECODER");
    const char *forceSw = getenv("FORCE_SOFTWARE_DECODER");
    if (envDecoder && envDecoder[0] != '\0' && !(forceSw && strcmp(forceSw, "1") == 0)) {
        const AVCodec *named = avcodec_find_decoder_by_name(envDecoder);
        if (named && named->id == par->codec_id && try_open(d, named, par) == 0) {
            fprintf(stderr, "Using decoder from VIDEO_DECODER: %s\n", named->name);
        }
    }
    if (!d->codecCtx) {
        const AVCodec *codec = avcodec_find_decoder(par->codec_id);
        if (!codec || try_open(d, codec, par) != 0) {
            fprintf(stderr, "Could not find any working decoder for codec id %d\n", par->codec_id);
            return -4;
        }
    }

    if (d->codecCtx->width <= 0 || d->codecCtx->height <= 0) {
        fprintf(stderr, "Video stream has no dimensions\n");
        return -5;
    }

    d->frame = av_frame_alloc();
    d->frameOut = av_frame_alloc();
    return 0;
}

// Allocate the converted picture in the given output format.
int set_output(Decoder *d, int rgba) {
    enum AVPixelFormat out = rgba ? AV_PIX_FMT_RGBA : AV_PIX_FMT_RGB565LE;
    int width = d->codecCtx->width;
    int height = d->codecCtx->height;

    d->bufferLen = av_image_get_buffer_size(out, width, height, 1);
    d->bufferOut = (uint8_t *)av_malloc(d->bufferLen);
    if (!d->bufferOut) {
        return -6;
    }
    av_image_fill_arrays(d->frameOut->data, d->frameOut->linesize, d->bufferOut, out, width, height, 1);

    d->swsCtx = sws_getContext(width, height, d->codecCtx->pix_fmt,
                               width, height, out,
                               SWS_BILINEAR, NULL, NULL, NULL);
    if (!d->swsCtx) {
        return -7;
    }
    return 0;
}

// Decode a single frame. Returns 1 on success, 0 on EOF or abort, negative on error.
int decode_frame(Decoder *d) {
    AVPacket *packet = av_packet_alloc();
    int ret;

    while (!d->abortRequest && av_read_frame(d->formatCtx, packet) >= 0) {
        if (packet->stream_index != d->videoStream) {
            av_packet_unref(packet);
            continue;
        }
        ret = avcodec_send_packet(d->codecCtx, packet);
        av_packet_unref(packet);
        if (ret < 0 && ret != AVERROR_INVALIDDATA) {
            av_packet_free(&packet);
            return -1;
        }
        ret = avcodec_receive_frame(d->codecCtx, d->frame);
        if (ret == AVERROR(EAGAIN) || ret == AVERROR_EOF) {
            continue;
        } else if (ret < 0) {
            av_packet_free(&packet);
            return -2;
        }

        sws_scale(d->swsCtx,
                  (const uint8_t * const*)d->frame->data,
                  d->frame->linesize,
                  0,
                  d->codecCtx->height,
                  d->frameOut->data,
                  d->frameOut->linesize);
        av_packet_free(&packet);
        return 1;
    }
    av_packet_free(&packet);
    return 0;
}

void close_decoder(Decoder *d) {
    if (!d) return;
    if (d->swsCtx) {
        sws_freeContext(d->swsCtx);
        d->swsCtx = NULL;
    }
    av_free(d->bufferOut);
    d->bufferOut = NULL;
    av_frame_free(&d->frameOut);
    av_frame_free(&d->frame);
    avcodec_free_context(&d->codecCtx);
    if (d->formatCtx) {
        avformat_close_input(&d->formatCtx);
    }
}

double decoder_fps(Decoder *d) {
    if (!d || d->videoStream < 0) {
        return 0;
    }
    AVStream *st = d->formatCtx->streams[d->videoStream];
    AVRational r = av_guess_frame_rate(d->formatCtx, st, NULL);
    if (r.den == 0) {
        return 0;
    }
    return av_q2d(r);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"tv-frame/pkg/frame"
)

// videoDecoder owns a C allocated Decoder. The struct lives in C memory
// because FFmpeg keeps a pointer to it for the interrupt callback.
type videoDecoder struct {
	cdec   *C.Decoder
	width  int
	height int
	fps    float64
}

func openDecoder(url, format string) (*videoDecoder, int) {
	cURL := C.CString(url)
	defer C.free(unsafe.Pointer(cURL))
	var cFormat *C.char
	if format != "" {
		cFormat = C.CString(format)
		defer C.free(unsafe.Pointer(cFormat))
	}

	cdec := (*C.Decoder)(C.calloc(1, C.size_t(unsafe.Sizeof(C.Decoder{}))))
	if ret := C.init_decoder(cURL, cFormat, cdec); ret != 0 {
		C.close_decoder(cdec)
		C.free(unsafe.Pointer(cdec))
		return nil, int(ret)
	}

	dec := &videoDecoder{
		cdec:   cdec,
		width:  int(cdec.codecCtx.width),
		height: int(cdec.codecCtx.height),
		fps:    float64(C.decoder_fps(cdec)),
	}
	if dec.fps <= 0 || dec.fps > 120 {
		dec.fps = 25
	}
	return dec, 0
}

// setOutput prepares conversion into buffers of the given pixel format.
func (d *videoDecoder) setOutput(format frame.PixelFormat) int {
	rgba := C.int(0)
	if format == frame.RGBA8888 {
		rgba = 1
	}
	return int(C.set_output(d.cdec, rgba))
}

// decodeInto decodes the next picture into fb. It returns 1 when a frame was
// written, 0 at end of stream or after abort, and a negative code on error.
func (d *videoDecoder) decodeInto(fb *frame.Buffer) int {
	ret := int(C.decode_frame(d.cdec))
	if ret != 1 {
		return ret
	}
	// the converted picture never exceeds the buffer sized at prepare
	n := min(int(d.cdec.bufferLen), fb.Len())
	src := unsafe.Slice((*byte)(unsafe.Pointer(d.cdec.bufferOut)), n)
	fb.Write(src)
	return 1
}

func (d *videoDecoder) abort(on bool) {
	v := C.int(0)
	if on {
		v = 1
	}
	C.decoder_abort(d.cdec, v)
}

func (d *videoDecoder) aborted() bool {
	return C.decoder_aborted(d.cdec) != 0
}

func (d *videoDecoder) close() {
	if d.cdec == nil {
		return
	}
	C.close_decoder(d.cdec)
	C.free(unsafe.Pointer(d.cdec))
	d.cdec = nil
}

func (d *videoDecoder) String() string {
	return fmt.Sprintf("%dx%d@%.2f", d.width, d.height, d.fps)
}
