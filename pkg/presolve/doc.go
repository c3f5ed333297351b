/*
The presolve package removes preference list entries of an HRC-MBP instance which can not be part of any matching
with at most max_bp blocking pairs. It is a fast preflight-filter which reduces the amount of variables the
constraint solver has to deal with.

Two passes run one after the other: a worklist pass which trims resident and couple lists once too many forced
blocking pairs accumulate, and a hospital truncation pass which is repeated until it no longer changes anything.
*/
package presolve
