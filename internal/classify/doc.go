// Package classify decides how an attachment is treated based on its MIME
// type and extension: routed to the image folder, the video folder, the
// catch-all folder, or refused outright.
package classify
