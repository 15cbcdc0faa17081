// Package model fits the weekly revenue model: an ordinary least-squares
// regression of weekly total payments on the weekly feature means, evaluated
// in sample, and the classification of each week against its prediction.
//
// The fit centers the design matrix and solves the centered problem through a
// thin SVD, taking the minimum-norm solution when the matrix is rank
// deficient (for example when there are fewer weeks than features). The
// intercept is recovered from the column means.
package model
