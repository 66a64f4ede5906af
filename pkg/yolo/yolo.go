package yolo

import (
	"github.com/Robogera/roadwatch/pkg/config"
	"github.com/Robogera/roadwatch/pkg/vehicle"
	"gocv.io/x/gocv"

	"image"
)

// Detect runs one forward pass and returns the vehicle detections
// above the configured confidence threshold. Non-vehicle classes are
// dropped here so the rest of the pipeline never sees them.
func Detect(net *gocv.Net, img *gocv.Mat, cfg *config.ModelConfig, output_layer_names []string, params *gocv.ImageToBlobParams) ([]vehicle.Detection, error) {
	blob := gocv.BlobFromImageWithParams(*img, *params)
	defer blob.Close()

	net.SetInput(blob, "")

	outputs := net.ForwardLayers(output_layer_names)
	defer func() {
		for _, output := range outputs {
			output.Close()
		}
	}()

	// YOLO-models authored by ultralytics come out transposed,
	// swap the last two axes back before reading rows
	// (seems to be in place and zero performance cost so ok)
	if cfg.Transpose {
		gocv.TransposeND(outputs[0], []int{0, 2, 1}, &outputs[0])
	}

	var detections []vehicle.Detection

	for _, output := range outputs {
		output_2d := output.Reshape(1, output.Size()[1])
		cols := output_2d.Cols()
		var boxes []image.Rectangle
		var confidences []float32
		var classes []vehicle.Class
		for i := 0; i < output_2d.Rows(); i++ {
			func() {
				row := output_2d.RowRange(i, i+1)
				defer row.Close()
				// values at indexes 4:cols are the confidence scores of the
				// object classes
				confidence_scores_area := row.ColRange(4, cols)
				defer confidence_scores_area.Close()
				_, confidence, _, class_id := gocv.MinMaxLoc(confidence_scores_area)
				// drop everything that isn't a vehicle
				class := vehicle.ClassFromIndex(class_id.X)
				if class == vehicle.ClassUnknown {
					return
				}
				// elements 0 and 1 correspond to the bounding box center coordinates
				x, y := int(row.GetFloatAt(0, 0)), int(row.GetFloatAt(0, 1))
				// and elements 2 and 3 are the box dimensions
				half_w, half_h := int(row.GetFloatAt(0, 2)/2.0), int(row.GetFloatAt(0, 3)/2.0)
				boxes = append(boxes, image.Rect(x-half_w, y-half_h, x+half_w, y+half_h))
				confidences = append(confidences, confidence)
				classes = append(classes, class)
			}()
		}
		output_2d.Close()

		if len(boxes) == 0 {
			continue
		}
		indices := gocv.NMSBoxes(boxes, confidences, cfg.ConfidenceThreshold, cfg.NMSThreshold)
		if len(indices) == 0 {
			continue
		}
		nms_boxes := make([]image.Rectangle, len(indices))
		for i, j := range indices {
			nms_boxes[i] = boxes[j]
		}
		nms_boxes = params.BlobRectsToImageRects(nms_boxes, image.Pt(img.Cols(), img.Rows()))
		for i, j := range indices {
			detections = append(detections, vehicle.Detection{
				Box:        nms_boxes[i],
				Class:      classes[j],
				Confidence: confidences[j],
			})
		}
	}

	return detections, nil
}
