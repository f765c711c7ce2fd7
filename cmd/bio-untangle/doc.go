/*
Command bio-untangle projects nonlinear path-to-path relationships in a
pangenome variation graph into pairwise, interval-level mappings: for
each query path, it emits segments whose sequence composition best
matches segments of the designated target paths, together with an
inversion flag, a Jaccard similarity score, and a rank.

Sample usage:

	bio-untangle -i graph.gfa -q chr1 -t chr1.ref > out.bedpe
*/
package main
